package grading

import (
	"encoding/json"
	"math"
	"testing"

	"tutorhub_backend/internal/model"
)

func mcqQuestion(marks float64, multi bool, options ...model.QuestionOption) *model.Question {
	return &model.Question{
		QuestionType: model.QuestionMCQ,
		Marks:        marks,
		Data: model.QuestionData{
			Options:       options,
			AllowMultiple: multi,
		},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGradeSingleChoice(t *testing.T) {
	q := mcqQuestion(2, false,
		model.QuestionOption{ID: "a", Text: "红", IsCorrect: false},
		model.QuestionOption{ID: "b", Text: "绿", IsCorrect: true},
		model.QuestionOption{ID: "c", Text: "蓝", IsCorrect: false},
	)
	g := New()

	tests := []struct {
		name      string
		selected  []string
		isCorrect bool
		score     float64
	}{
		{"correct option", []string{"b"}, true, 2},
		{"wrong option", []string{"a"}, false, 0},
		{"no selection", nil, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.Grade(q, model.AnswerData{SelectedOptions: tt.selected})
			if res.IsCorrect != tt.isCorrect {
				t.Errorf("IsCorrect = %v, want %v", res.IsCorrect, tt.isCorrect)
			}
			if !almostEqual(res.Score, tt.score) {
				t.Errorf("Score = %v, want %v", res.Score, tt.score)
			}
			if !almostEqual(res.MaxScore, 2) {
				t.Errorf("MaxScore = %v, want 2", res.MaxScore)
			}
		})
	}
}

func TestGradeMultiChoice(t *testing.T) {
	q := mcqQuestion(4, true,
		model.QuestionOption{ID: "a", IsCorrect: true},
		model.QuestionOption{ID: "b", IsCorrect: true},
		model.QuestionOption{ID: "c", IsCorrect: false},
		model.QuestionOption{ID: "d", IsCorrect: false},
	)
	g := New()

	tests := []struct {
		name      string
		selected  []string
		isCorrect bool
		score     float64
	}{
		{"all correct", []string{"a", "b"}, true, 4},
		{"one of two", []string{"a"}, false, 2},
		{"one correct one wrong", []string{"a", "c"}, false, 1},
		{"only wrong floors at zero", []string{"c", "d"}, false, 0},
		{"duplicates count once", []string{"a", "a", "b"}, true, 4},
		{"all selected", []string{"a", "b", "c", "d"}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.Grade(q, model.AnswerData{SelectedOptions: tt.selected})
			if res.IsCorrect != tt.isCorrect {
				t.Errorf("IsCorrect = %v, want %v", res.IsCorrect, tt.isCorrect)
			}
			if !almostEqual(res.Score, tt.score) {
				t.Errorf("Score = %v, want %v", res.Score, tt.score)
			}
		})
	}
}

func TestGradeShortAnswer(t *testing.T) {
	q := &model.Question{
		QuestionType: model.QuestionShortAnswer,
		Marks:        1,
		Data: model.QuestionData{
			AcceptedAnswers: []string{"Photosynthesis", "光合作用"},
		},
	}
	g := New()

	tests := []struct {
		name      string
		text      string
		isCorrect bool
	}{
		{"exact match", "Photosynthesis", true},
		{"case and whitespace normalized", "  photosynthesis ", true},
		{"alternate accepted answer", "光合作用", true},
		{"wrong answer", "respiration", false},
		{"empty answer", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.Grade(q, model.AnswerData{Text: tt.text})
			if res.IsCorrect != tt.isCorrect {
				t.Errorf("IsCorrect = %v, want %v", res.IsCorrect, tt.isCorrect)
			}
		})
	}
}

func TestGradeUnknownTypeNeedsManual(t *testing.T) {
	q := &model.Question{QuestionType: "essay", Marks: 5}
	res := New().Grade(q, model.AnswerData{Text: "长文本"})
	if !res.NeedsManual {
		t.Error("expected NeedsManual for unregistered question type")
	}
	if res.Score != 0 || !almostEqual(res.MaxScore, 5) {
		t.Errorf("Score = %v, MaxScore = %v, want 0 and 5", res.Score, res.MaxScore)
	}
}

func TestNormalizeAnswerChoiceShapes(t *testing.T) {
	q := mcqQuestion(1, false,
		model.QuestionOption{ID: "opt-a"},
		model.QuestionOption{ID: "opt-b", IsCorrect: true},
		model.QuestionOption{ID: "opt-c"},
	)

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"index object", `{"selectedOption": 1}`, []string{"opt-b"}},
		{"id list object", `{"selected_options": ["opt-b"]}`, []string{"opt-b"}},
		{"index list object", `{"selected_options": [0, 2]}`, []string{"opt-a", "opt-c"}},
		{"bare index", `1`, []string{"opt-b"}},
		{"bare array", `["opt-a", "opt-b"]`, []string{"opt-a", "opt-b"}},
		{"numeric string index", `{"selected_options": ["2"]}`, []string{"opt-c"}},
		{"out of range index dropped", `{"selectedOption": 9}`, nil},
		{"garbage", `{"foo": "bar"}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAnswer(q, json.RawMessage(tt.raw))
			if len(got.SelectedOptions) != len(tt.want) {
				t.Fatalf("SelectedOptions = %v, want %v", got.SelectedOptions, tt.want)
			}
			for i := range tt.want {
				if got.SelectedOptions[i] != tt.want[i] {
					t.Errorf("SelectedOptions[%d] = %q, want %q", i, got.SelectedOptions[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeAnswerFreeText(t *testing.T) {
	q := &model.Question{QuestionType: model.QuestionShortAnswer}

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare string", `"my answer"`, "my answer"},
		{"text object", `{"text": "my answer"}`, "my answer"},
		{"answer object", `{"answer": "other"}`, "other"},
		{"malformed", `[1,2]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAnswer(q, json.RawMessage(tt.raw)); got.Text != tt.want {
				t.Errorf("Text = %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestNormalizeThenGradeIndexAnswer(t *testing.T) {
	q := mcqQuestion(3, false,
		model.QuestionOption{ID: "x"},
		model.QuestionOption{ID: "y", IsCorrect: true},
	)
	g := New()

	answer := NormalizeAnswer(q, json.RawMessage(`{"selectedOption": 1}`))
	res := g.Grade(q, answer)
	if !res.IsCorrect || !almostEqual(res.Score, 3) {
		t.Errorf("graded %+v, want correct with full marks", res)
	}
}
