package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// 交互类型
const (
	InteractionHelpRequest   = "help_request"
	InteractionFlagDifficult = "flag_difficult"
	InteractionHintUsed      = "hint_used"
	InteractionTTSUsed       = "tts_used"
)

// HelpRequest 帮助/提示日志条目
type HelpRequest struct {
	Type string                 `json:"type"`
	At   time.Time              `json:"at"`
	Data map[string]interface{} `json:"data,omitempty"`
}

type HelpRequestList []HelpRequest

func (l HelpRequestList) Value() (driver.Value, error) {
	if l == nil {
		l = HelpRequestList{}
	}
	return json.Marshal(l)
}

func (l *HelpRequestList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// SlideInteraction 学员与单页幻灯片的细粒度交互，
// (child_id, slide_id, lesson_progress_id) 唯一。
// flagged_difficult 是独立布尔位，不进帮助日志。
type SlideInteraction struct {
	BaseModel
	ChildID          uint            `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_child_slide_progress" json:"childId"`
	SlideID          uint            `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_child_slide_progress" json:"slideId"`
	LessonProgressID uint            `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_child_slide_progress" json:"lessonProgressId"`
	InteractionsCount int            `gorm:"default:0" json:"interactionsCount"`
	TimeSpentSeconds int             `gorm:"default:0" json:"timeSpentSeconds"`
	ConfidenceRating *int            `json:"confidenceRating,omitempty"`
	FlaggedDifficult bool            `gorm:"default:false" json:"flaggedDifficult"`
	HelpRequests     HelpRequestList `gorm:"type:json" json:"helpRequests"`
	FirstViewedAt    *time.Time      `json:"firstViewedAt,omitempty"`
	LastViewedAt     *time.Time      `json:"lastViewedAt,omitempty"`
}

func (SlideInteraction) TableName() string {
	return "slide_interactions"
}

// AddHelpRequest 追加一条帮助日志
func (i *SlideInteraction) AddHelpRequest(reqType string, data map[string]interface{}, now time.Time) {
	i.HelpRequests = append(i.HelpRequests, HelpRequest{Type: reqType, At: now, Data: data})
}
