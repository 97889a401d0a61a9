package service

import (
	"encoding/json"
	"errors"
	"testing"

	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/util"
)

func mustCreateMCQ(t *testing.T, e *testEnv, marks float64, multi bool) *model.Question {
	t.Helper()
	q := &model.Question{
		QuestionText: "1/2 + 1/4 = ?",
		QuestionType: model.QuestionMCQ,
		Marks:        marks,
		Data: model.QuestionData{
			AllowMultiple: multi,
			Options: []model.QuestionOption{
				{ID: "opt-a", Text: "3/4", IsCorrect: true},
				{ID: "opt-b", Text: "2/6"},
				{ID: "opt-c", Text: "1/8"},
			},
		},
	}
	if multi {
		q.Data.Options[1].IsCorrect = true
	}
	if err := e.questions.Create(q); err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q
}

func attachQuestionBlock(t *testing.T, e *testEnv, slide *model.LessonSlide, blockID string, questionID uint, retryAllowed bool, maxAttempts int) {
	t.Helper()
	slide.Blocks = append(slide.Blocks, model.SlideBlock{
		ID:   blockID,
		Type: model.BlockTypeQuestion,
		Content: model.SlideBlockContent{
			QuestionID:   questionID,
			RetryAllowed: retryAllowed,
			MaxAttempts:  maxAttempts,
		},
	})
	if err := e.content.SaveSlide(slide); err != nil {
		t.Fatalf("save slide: %v", err)
	}
}

func setupQuestion(t *testing.T, rules model.CompletionRules) (*testEnv, *model.ContentLesson, *model.LessonSlide, *model.Child) {
	t.Helper()
	e := newTestEnv(t)
	lesson, slides := e.mustCreateContentLesson(t, 1, rules)
	child := e.mustCreateChild(t, 1, "Alice")
	e.mustCreateGrant(t, grantForContentLesson(child.ID, lesson.ID))
	if _, _, err := e.progressSv.Start(child.ID, lesson.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return e, lesson, &slides[0], child
}

func TestSubmitResponseGradesSingleChoice(t *testing.T) {
	e, lesson, slide, child := setupQuestion(t, model.CompletionRules{MinScore: 50})
	q := mustCreateMCQ(t, e, 2, false)
	attachQuestionBlock(t, e, slide, "blk-1", q.ID, false, 0)

	result, err := e.questionSv.SubmitResponse(child.ID, lesson.ID, SubmitAnswerInput{
		SlideID: slide.ID,
		BlockID: "blk-1",
		Answer:  json.RawMessage(`{"selected_options":["opt-a"]}`),
	})
	if err != nil {
		t.Fatalf("SubmitResponse: %v", err)
	}
	if !result.IsCorrect || result.Score != 2 || result.MaxScore != 2 {
		t.Errorf("verdict = correct=%v score=%v/%v, want correct 2/2", result.IsCorrect, result.Score, result.MaxScore)
	}
	if result.Attempt != 1 {
		t.Errorf("attempt = %d, want 1", result.Attempt)
	}
	if !result.Completed {
		t.Error("full score should satisfy the min-score rule")
	}

	p, err := e.progress.Find(child.ID, lesson.ID)
	if err != nil {
		t.Fatalf("find progress: %v", err)
	}
	if p.QuestionsAttempted != 1 || p.QuestionsCorrect != 1 || p.QuestionsScore != 100 {
		t.Errorf("aggregates = %d/%d score %.1f, want 1/1 score 100", p.QuestionsAttempted, p.QuestionsCorrect, p.QuestionsScore)
	}
}

func TestSubmitResponseIndexAnswer(t *testing.T) {
	e, lesson, slide, child := setupQuestion(t, model.CompletionRules{MinScore: 100})
	q := mustCreateMCQ(t, e, 1, false)
	attachQuestionBlock(t, e, slide, "blk-1", q.ID, false, 0)

	// 前端有时只传选项下标，归一化后按 ID 判分
	result, err := e.questionSv.SubmitResponse(child.ID, lesson.ID, SubmitAnswerInput{
		SlideID: slide.ID,
		BlockID: "blk-1",
		Answer:  json.RawMessage(`{"selectedOption":0}`),
	})
	if err != nil {
		t.Fatalf("SubmitResponse: %v", err)
	}
	if !result.IsCorrect {
		t.Errorf("index answer should grade as correct: %+v", result)
	}
}

func TestSubmitResponseRetryGate(t *testing.T) {
	e, lesson, slide, child := setupQuestion(t, model.CompletionRules{MinScore: 100})
	q := mustCreateMCQ(t, e, 1, false)
	attachQuestionBlock(t, e, slide, "blk-once", q.ID, false, 0)

	wrong := SubmitAnswerInput{SlideID: slide.ID, BlockID: "blk-once", Answer: json.RawMessage(`{"selected_options":["opt-b"]}`)}
	if _, err := e.questionSv.SubmitResponse(child.ID, lesson.ID, wrong); err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	if _, err := e.questionSv.SubmitResponse(child.ID, lesson.ID, wrong); !errors.Is(err, util.ErrRetryNotAllowed) {
		t.Errorf("got %v, want ErrRetryNotAllowed", err)
	}
}

func TestSubmitResponseMaxAttempts(t *testing.T) {
	e, lesson, slide, child := setupQuestion(t, model.CompletionRules{MinScore: 100})
	q := mustCreateMCQ(t, e, 1, false)
	attachQuestionBlock(t, e, slide, "blk-retry", q.ID, true, 2)

	wrong := SubmitAnswerInput{SlideID: slide.ID, BlockID: "blk-retry", Answer: json.RawMessage(`{"selected_options":["opt-b"]}`)}
	for i := 1; i <= 2; i++ {
		result, err := e.questionSv.SubmitResponse(child.ID, lesson.ID, wrong)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if result.Attempt != i {
			t.Errorf("attempt number = %d, want %d", result.Attempt, i)
		}
	}
	if _, err := e.questionSv.SubmitResponse(child.ID, lesson.ID, wrong); !errors.Is(err, util.ErrMaxAttemptsReached) {
		t.Errorf("got %v, want ErrMaxAttemptsReached", err)
	}
}

func TestSubmitResponseLatestAttemptWins(t *testing.T) {
	e, lesson, slide, child := setupQuestion(t, model.CompletionRules{MinScore: 100})
	q := mustCreateMCQ(t, e, 2, false)
	attachQuestionBlock(t, e, slide, "blk-1", q.ID, true, 0)

	if _, err := e.questionSv.SubmitResponse(child.ID, lesson.ID, SubmitAnswerInput{
		SlideID: slide.ID, BlockID: "blk-1", Answer: json.RawMessage(`{"selected_options":["opt-c"]}`),
	}); err != nil {
		t.Fatalf("wrong attempt: %v", err)
	}
	result, err := e.questionSv.SubmitResponse(child.ID, lesson.ID, SubmitAnswerInput{
		SlideID: slide.ID, BlockID: "blk-1", Answer: json.RawMessage(`{"selected_options":["opt-a"]}`),
	})
	if err != nil {
		t.Fatalf("correct attempt: %v", err)
	}
	if result.Attempt != 2 {
		t.Errorf("attempt = %d, want 2", result.Attempt)
	}

	// 汇总只看每题最新一次尝试
	p, err := e.progress.Find(child.ID, lesson.ID)
	if err != nil {
		t.Fatalf("find progress: %v", err)
	}
	if p.QuestionsAttempted != 1 || p.QuestionsCorrect != 1 || p.QuestionsScore != 100 {
		t.Errorf("aggregates = %d/%d score %.1f, want latest attempt only", p.QuestionsAttempted, p.QuestionsCorrect, p.QuestionsScore)
	}
}

func TestSubmitResponseAggregatesAcrossQuestions(t *testing.T) {
	e := newTestEnv(t)
	lesson, slides := e.mustCreateContentLesson(t, 2, model.CompletionRules{MinScore: 100})
	child := e.mustCreateChild(t, 1, "Alice")
	e.mustCreateGrant(t, grantForContentLesson(child.ID, lesson.ID))
	if _, _, err := e.progressSv.Start(child.ID, lesson.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	q1 := mustCreateMCQ(t, e, 2, false)
	q2 := mustCreateMCQ(t, e, 2, false)
	attachQuestionBlock(t, e, &slides[0], "blk-1", q1.ID, false, 0)
	attachQuestionBlock(t, e, &slides[1], "blk-2", q2.ID, false, 0)

	if _, err := e.questionSv.SubmitResponse(child.ID, lesson.ID, SubmitAnswerInput{
		SlideID: slides[0].ID, BlockID: "blk-1", Answer: json.RawMessage(`{"selected_options":["opt-a"]}`),
	}); err != nil {
		t.Fatalf("q1: %v", err)
	}
	if _, err := e.questionSv.SubmitResponse(child.ID, lesson.ID, SubmitAnswerInput{
		SlideID: slides[1].ID, BlockID: "blk-2", Answer: json.RawMessage(`{"selected_options":["opt-b"]}`),
	}); err != nil {
		t.Fatalf("q2: %v", err)
	}

	p, err := e.progress.Find(child.ID, lesson.ID)
	if err != nil {
		t.Fatalf("find progress: %v", err)
	}
	if p.QuestionsAttempted != 2 || p.QuestionsCorrect != 1 {
		t.Errorf("attempted/correct = %d/%d, want 2/1", p.QuestionsAttempted, p.QuestionsCorrect)
	}
	if p.QuestionsScore != 50 {
		t.Errorf("score = %.1f, want 50", p.QuestionsScore)
	}
}

func TestSubmitResponseRejectsBadBlock(t *testing.T) {
	e, lesson, slide, child := setupQuestion(t, model.CompletionRules{MinScore: 100})

	_, err := e.questionSv.SubmitResponse(child.ID, lesson.ID, SubmitAnswerInput{
		SlideID: slide.ID, BlockID: "missing", Answer: json.RawMessage(`{"selected_options":["opt-a"]}`),
	})
	if !errors.Is(err, util.ErrBlockNotFound) {
		t.Errorf("missing block: got %v, want ErrBlockNotFound", err)
	}

	// 非题目块同样拒绝
	slide.Blocks = append(slide.Blocks, model.SlideBlock{
		ID: "blk-text", Type: model.BlockTypeContent, Content: model.SlideBlockContent{HTML: "<p>提示</p>"},
	})
	if err := e.content.SaveSlide(slide); err != nil {
		t.Fatalf("save slide: %v", err)
	}
	_, err = e.questionSv.SubmitResponse(child.ID, lesson.ID, SubmitAnswerInput{
		SlideID: slide.ID, BlockID: "blk-text", Answer: json.RawMessage(`{"selected_options":["opt-a"]}`),
	})
	if !errors.Is(err, util.ErrBlockNotFound) {
		t.Errorf("text block: got %v, want ErrBlockNotFound", err)
	}
}

func TestSubmitResponseRequiresProgress(t *testing.T) {
	e := newTestEnv(t)
	lesson, slides := e.mustCreateContentLesson(t, 1, model.CompletionRules{})
	child := e.mustCreateChild(t, 1, "Alice")
	q := mustCreateMCQ(t, e, 1, false)
	attachQuestionBlock(t, e, &slides[0], "blk-1", q.ID, false, 0)

	_, err := e.questionSv.SubmitResponse(child.ID, lesson.ID, SubmitAnswerInput{
		SlideID: slides[0].ID, BlockID: "blk-1", Answer: json.RawMessage(`{"selected_options":["opt-a"]}`),
	})
	if !errors.Is(err, util.ErrProgressNotFound) {
		t.Errorf("got %v, want ErrProgressNotFound", err)
	}
}
