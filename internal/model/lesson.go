package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Lesson 直播/线下排课，考勤以这里的开课日期为准
type Lesson struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	TutorID     uint       `gorm:"index;type:bigint unsigned" json:"tutorId"`
	StartTime   time.Time  `gorm:"index;not null" json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	MeetingURL  string     `gorm:"size:255" json:"meetingUrl"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// Date 返回开课日（考勤行的默认日期）
func (l *Lesson) Date() time.Time {
	y, m, d := l.StartTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CompletionRules 课件完成判定规则
type CompletionRules struct {
	MinSlidesViewed    int     `json:"min_slides_viewed,omitempty"`
	MinScore           float64 `json:"min_score,omitempty"`
	AllUploadsRequired bool    `json:"all_uploads_required,omitempty"`
}

func (r CompletionRules) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *CompletionRules) Scan(value interface{}) error {
	return scanJSON(value, r)
}

// ContentLesson 自学课件，由幻灯片组成
type ContentLesson struct {
	BaseModel
	UID              string          `gorm:"size:36;uniqueIndex" json:"uid"`
	Title            string          `gorm:"size:255;not null" json:"title"`
	Description      string          `gorm:"type:text" json:"description"`
	LessonType       string          `gorm:"size:50;default:'self_paced'" json:"lessonType"`
	EstimatedMinutes int             `gorm:"default:0" json:"estimatedMinutes"`
	EnableTTS        bool            `gorm:"default:false" json:"enableTts"`
	IsPublished      bool            `gorm:"default:false" json:"isPublished"`
	CompletionRules  CompletionRules `gorm:"type:json" json:"completionRules"`
	UploadsRequired  int             `gorm:"default:0" json:"uploadsRequired"`
}

func (ContentLesson) TableName() string {
	return "content_lessons"
}

// 幻灯片内容块类型
const (
	BlockTypeContent  = "content"
	BlockTypeQuestion = "question"
)

// SlideBlockContent 块载荷；question块引用题库题目并携带重试策略
type SlideBlockContent struct {
	HTML         string `json:"html,omitempty"`
	MediaURL     string `json:"media_url,omitempty"`
	QuestionID   uint   `json:"question_id,omitempty"`
	RetryAllowed bool   `json:"retry_allowed,omitempty"`
	MaxAttempts  int    `json:"max_attempts,omitempty"`
}

type SlideBlock struct {
	ID      string            `json:"id"`
	Type    string            `json:"type"`
	Content SlideBlockContent `json:"content"`
}

type SlideBlockList []SlideBlock

func (l SlideBlockList) Value() (driver.Value, error) {
	if l == nil {
		l = SlideBlockList{}
	}
	return json.Marshal(l)
}

func (l *SlideBlockList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// LessonSlide 课件内的一页
type LessonSlide struct {
	BaseModel
	ContentLessonID uint           `gorm:"index;type:bigint unsigned;not null" json:"contentLessonId"`
	UID             string         `gorm:"size:36;uniqueIndex" json:"uid"`
	Title           string         `gorm:"size:255" json:"title"`
	OrderPosition   int            `gorm:"default:0;index" json:"orderPosition"`
	Blocks          SlideBlockList `gorm:"type:json" json:"blocks"`
}

func (LessonSlide) TableName() string {
	return "lesson_slides"
}

// FindBlock 按块ID查找
func (s *LessonSlide) FindBlock(blockID string) *SlideBlock {
	for i := range s.Blocks {
		if s.Blocks[i].ID == blockID {
			return &s.Blocks[i]
		}
	}
	return nil
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported json column type")
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}
