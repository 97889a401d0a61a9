package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// AnswerData 规整后的答案载荷：选择题用 selected_options（稳定选项ID），
// 文本题用 text。未知形状在判分阶段按错误处理，不报错。
type AnswerData struct {
	SelectedOptions []string `json:"selected_options,omitempty"`
	Text            string   `json:"text,omitempty"`
}

func (a AnswerData) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *AnswerData) Scan(value interface{}) error {
	return scanJSON(value, a)
}

// LessonQuestionResponse 一次答题提交；允许重试时同一题有多行
type LessonQuestionResponse struct {
	UUIDBase
	ChildID          uint       `gorm:"index;type:bigint unsigned;not null" json:"childId"`
	LessonProgressID uint       `gorm:"index;type:bigint unsigned;not null" json:"lessonProgressId"`
	SlideID          uint       `gorm:"index;type:bigint unsigned" json:"slideId"`
	BlockID          string     `gorm:"size:64;index" json:"blockId"`
	QuestionID       uint       `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	AnswerData       AnswerData `gorm:"type:json" json:"answerData"`
	IsCorrect        bool       `gorm:"default:false" json:"isCorrect"`
	ScoreEarned      float64    `gorm:"type:decimal(5,2);default:0" json:"scoreEarned"`
	ScorePossible    float64    `gorm:"type:decimal(5,2);default:0" json:"scorePossible"`
	AttemptNumber    int        `gorm:"default:1" json:"attemptNumber"`
	TimeSpentSeconds int        `gorm:"default:0" json:"timeSpentSeconds"`
	HintsUsed        StringList `gorm:"type:json" json:"hintsUsed"`
	Feedback         string     `gorm:"type:text" json:"feedback"`
	AnsweredAt       time.Time  `json:"answeredAt"`
}

func (LessonQuestionResponse) TableName() string {
	return "lesson_question_responses"
}
