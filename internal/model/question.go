package model

import (
	"database/sql/driver"
	"encoding/json"
)

// QuestionType 封闭题型集合；判分按题型穷尽分派
type QuestionType string

const (
	QuestionMCQ         QuestionType = "mcq"
	QuestionTrueFalse   QuestionType = "true_false"
	QuestionShortAnswer QuestionType = "short_answer"
)

// QuestionOption 选择题选项，ID为稳定标识（前端可能只回传下标）
type QuestionOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionData 题目定义载荷，按题型取用相应字段
type QuestionData struct {
	Options         []QuestionOption `json:"options,omitempty"`
	AllowMultiple   bool             `json:"allow_multiple,omitempty"`
	AcceptedAnswers []string         `json:"accepted_answers,omitempty"`
	Explanation     string           `json:"explanation,omitempty"`
}

func (d QuestionData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *QuestionData) Scan(value interface{}) error {
	return scanJSON(value, d)
}

// CorrectOptionIDs 正确选项ID集合
func (d *QuestionData) CorrectOptionIDs() []string {
	var ids []string
	for _, o := range d.Options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// OptionIDByIndex 将前端下标换算为稳定选项ID；越界返回空串
func (d *QuestionData) OptionIDByIndex(idx int) string {
	if idx < 0 || idx >= len(d.Options) {
		return ""
	}
	return d.Options[idx].ID
}

// swagger:model Question
type Question struct {
	BaseModel
	QuestionText string       `gorm:"type:text;not null" json:"questionText"`
	QuestionType QuestionType `gorm:"size:50;not null;index" json:"questionType"`
	Marks        float64      `gorm:"type:decimal(5,2);default:1" json:"marks"`
	Data         QuestionData `gorm:"type:json" json:"data"`
	CreatorID    uint         `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (Question) TableName() string {
	return "questions"
}
