package grading

import (
	"encoding/json"
	"strconv"
	"tutorhub_backend/internal/model"
)

// NormalizeAnswer 把前端回传的原始答案载荷规整成题型期望的形状。
// 选择题前端可能回传 {"selectedOption": 2}（UI下标）、
// {"selected_options": ["b"]}（已是选项ID）、裸下标或裸字符串；
// 下标统一换算成稳定选项ID。无法识别的形状返回空载荷，由判分按错处理。
func NormalizeAnswer(q *model.Question, raw json.RawMessage) model.AnswerData {
	switch q.QuestionType {
	case model.QuestionMCQ, model.QuestionTrueFalse:
		return normalizeChoice(q, raw)
	case model.QuestionShortAnswer:
		return normalizeFreeText(raw)
	}
	return model.AnswerData{}
}

func normalizeChoice(q *model.Question, raw json.RawMessage) model.AnswerData {
	var values []interface{}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil && obj != nil {
		if v, ok := obj["selected_options"]; ok {
			var arr []interface{}
			if json.Unmarshal(v, &arr) == nil {
				values = arr
			}
		} else if v, ok := obj["selectedOption"]; ok {
			var single interface{}
			if json.Unmarshal(v, &single) == nil {
				values = []interface{}{single}
			}
		}
	} else {
		// 裸值：单个下标/ID 或数组
		var arr []interface{}
		if json.Unmarshal(raw, &arr) == nil {
			values = arr
		} else {
			var single interface{}
			if json.Unmarshal(raw, &single) == nil && single != nil {
				values = []interface{}{single}
			}
		}
	}

	out := model.AnswerData{}
	for _, v := range values {
		if id := resolveOption(q, v); id != "" {
			out.SelectedOptions = append(out.SelectedOptions, id)
		}
	}
	return out
}

// resolveOption 数字按UI下标换算成选项ID；字符串先当ID，再尝试按数字下标解释
func resolveOption(q *model.Question, v interface{}) string {
	switch t := v.(type) {
	case float64:
		return q.Data.OptionIDByIndex(int(t))
	case string:
		for _, o := range q.Data.Options {
			if o.ID == t {
				return t
			}
		}
		if idx, err := strconv.Atoi(t); err == nil {
			return q.Data.OptionIDByIndex(idx)
		}
	}
	return ""
}

func normalizeFreeText(raw json.RawMessage) model.AnswerData {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return model.AnswerData{Text: s}
	}
	var obj struct {
		Text   string `json:"text"`
		Answer string `json:"answer"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		if obj.Text != "" {
			return model.AnswerData{Text: obj.Text}
		}
		return model.AnswerData{Text: obj.Answer}
	}
	return model.AnswerData{}
}
