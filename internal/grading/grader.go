// Package grading 按题型对学员答案自动判分。
// 题型是封闭集合，每个题型对应一个判分策略；未知或畸形答案一律判错，
// 不返回错误，保证学员总能拿到判分结果。
package grading

import (
	"fmt"
	"strings"
	"tutorhub_backend/internal/model"
)

// Result 单题判分结果
type Result struct {
	IsCorrect   bool    `json:"is_correct"`
	Score       float64 `json:"score"`
	MaxScore    float64 `json:"max_score"`
	Feedback    string  `json:"feedback,omitempty"`
	NeedsManual bool    `json:"needs_manual,omitempty"`
}

// Strategy 单题型判分策略
type Strategy interface {
	Grade(q *model.Question, answer model.AnswerData) Result
}

// Grader 按题型路由到对应策略
type Grader struct {
	strategies map[model.QuestionType]Strategy
}

// New 安装内置策略
func New() *Grader {
	return &Grader{
		strategies: map[model.QuestionType]Strategy{
			model.QuestionMCQ:         mcqStrategy{},
			model.QuestionTrueFalse:   mcqStrategy{},
			model.QuestionShortAnswer: shortAnswerStrategy{},
		},
	}
}

// Grade 判分；未注册的题型转人工，得分为0
func (g *Grader) Grade(q *model.Question, answer model.AnswerData) Result {
	s, ok := g.strategies[q.QuestionType]
	if !ok {
		return Result{MaxScore: q.Marks, NeedsManual: true, Feedback: "no grading strategy available"}
	}
	return s.Grade(q, answer)
}

// mcqStrategy 选择题（含判断题）。单选二元计分：全对得满分，否则0分。
// 多选按 +1/-0.5 计分后按比例折算到题目分值，下限0。
type mcqStrategy struct{}

func (mcqStrategy) Grade(q *model.Question, answer model.AnswerData) Result {
	res := Result{MaxScore: q.Marks}

	correct := q.Data.CorrectOptionIDs()
	if len(correct) == 0 {
		res.Feedback = "question has no correct option configured"
		return res
	}

	selected := answer.SelectedOptions
	multi := q.Data.AllowMultiple || len(correct) > 1

	if !multi {
		if len(selected) == 0 {
			res.Feedback = "no option selected"
			return res
		}
		if selected[0] == correct[0] {
			res.IsCorrect = true
			res.Score = q.Marks
			res.Feedback = "Correct!"
		} else {
			res.Feedback = fmt.Sprintf("Incorrect. The correct answer is %s.", optionText(q, correct[0]))
		}
		return res
	}

	correctSet := toSet(correct)
	var hit, miss int
	for _, id := range dedupe(selected) {
		if correctSet[id] {
			hit++
		} else {
			miss++
		}
	}

	raw := float64(hit) - 0.5*float64(miss)
	if raw < 0 {
		raw = 0
	}
	res.Score = q.Marks * raw / float64(len(correct))
	res.IsCorrect = hit == len(correct) && miss == 0
	if res.IsCorrect {
		res.Score = q.Marks
		res.Feedback = "Perfect! All correct options selected."
	} else {
		res.Feedback = fmt.Sprintf("Selected %d of %d correct options, %d incorrect.", hit, len(correct), miss)
	}
	return res
}

// shortAnswerStrategy 简答题：规整大小写和空白后与备选答案精确比对
type shortAnswerStrategy struct{}

func (shortAnswerStrategy) Grade(q *model.Question, answer model.AnswerData) Result {
	res := Result{MaxScore: q.Marks}

	given := normalizeText(answer.Text)
	if given == "" {
		res.Feedback = "no answer given"
		return res
	}

	for _, accepted := range q.Data.AcceptedAnswers {
		if normalizeText(accepted) == given {
			res.IsCorrect = true
			res.Score = q.Marks
			res.Feedback = "Correct!"
			return res
		}
	}

	res.Feedback = "Incorrect."
	return res
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func optionText(q *model.Question, optionID string) string {
	for _, o := range q.Data.Options {
		if o.ID == optionID {
			return o.Text
		}
	}
	return optionID
}

func toSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
