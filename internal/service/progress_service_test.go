package service

import (
	"errors"
	"testing"

	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/util"
)

func setupProgress(t *testing.T, slideCount int, rules model.CompletionRules) (*testEnv, *model.ContentLesson, []model.LessonSlide, *model.Child) {
	t.Helper()
	e := newTestEnv(t)
	lesson, slides := e.mustCreateContentLesson(t, slideCount, rules)
	child := e.mustCreateChild(t, 1, "Alice")
	e.mustCreateGrant(t, grantForContentLesson(child.ID, lesson.ID))
	return e, lesson, slides, child
}

func TestStartIsIdempotent(t *testing.T) {
	e, lesson, _, child := setupProgress(t, 3, model.CompletionRules{})

	first, created, err := e.progressSv.Start(child.ID, lesson.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !created {
		t.Error("first Start should create a progress row")
	}
	if first.Status != model.ProgressInProgress || first.StartedAt == nil {
		t.Errorf("progress not initialized: %+v", first)
	}

	second, created, err := e.progressSv.Start(child.ID, lesson.ID)
	if err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if created {
		t.Error("second Start must not create another row")
	}
	if second.ID != first.ID {
		t.Errorf("progress id changed: %d -> %d", first.ID, second.ID)
	}
}

func TestStartRequiresAccess(t *testing.T) {
	e := newTestEnv(t)
	lesson, _ := e.mustCreateContentLesson(t, 1, model.CompletionRules{})
	child := e.mustCreateChild(t, 1, "Alice")

	if _, _, err := e.progressSv.Start(child.ID, lesson.ID); !errors.Is(err, util.ErrNoLessonAccess) {
		t.Errorf("got %v, want ErrNoLessonAccess", err)
	}
}

func TestRecordSlideViewSetSemantics(t *testing.T) {
	e, lesson, slides, child := setupProgress(t, 4, model.CompletionRules{})
	if _, _, err := e.progressSv.Start(child.ID, lesson.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	p, err := e.progressSv.RecordSlideView(child.ID, lesson.ID, SlideViewInput{SlideID: slides[0].ID, TimeSpentSeconds: 30})
	if err != nil {
		t.Fatalf("RecordSlideView: %v", err)
	}
	if p.CompletionPercentage != 25 {
		t.Errorf("pct = %d, want 25", p.CompletionPercentage)
	}

	p, err = e.progressSv.RecordSlideView(child.ID, lesson.ID, SlideViewInput{SlideID: slides[1].ID})
	if err != nil {
		t.Fatalf("RecordSlideView: %v", err)
	}
	if p.CompletionPercentage != 50 {
		t.Errorf("pct = %d, want 50", p.CompletionPercentage)
	}

	// 重复浏览不抬高进度，但时长照常累计
	p, err = e.progressSv.RecordSlideView(child.ID, lesson.ID, SlideViewInput{SlideID: slides[0].ID, TimeSpentSeconds: 15})
	if err != nil {
		t.Fatalf("repeat view: %v", err)
	}
	if p.CompletionPercentage != 50 {
		t.Errorf("pct after repeat = %d, want 50", p.CompletionPercentage)
	}
	if len(p.SlidesViewed) != 2 {
		t.Errorf("slides viewed = %v, want 2 entries", p.SlidesViewed)
	}
	if p.TimeSpentSeconds != 45 {
		t.Errorf("time spent = %d, want 45", p.TimeSpentSeconds)
	}
}

func TestRecordSlideViewRejectsForeignSlide(t *testing.T) {
	e, lesson, _, child := setupProgress(t, 1, model.CompletionRules{})
	_, otherSlides := e.mustCreateContentLesson(t, 1, model.CompletionRules{})
	if _, _, err := e.progressSv.Start(child.ID, lesson.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	_, err := e.progressSv.RecordSlideView(child.ID, lesson.ID, SlideViewInput{SlideID: otherSlides[0].ID})
	if !errors.Is(err, util.ErrSlideNotFound) {
		t.Errorf("got %v, want ErrSlideNotFound", err)
	}
}

func TestUpdateProgressHeartbeat(t *testing.T) {
	e, lesson, slides, child := setupProgress(t, 2, model.CompletionRules{})
	if _, _, err := e.progressSv.Start(child.ID, lesson.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	p, err := e.progressSv.UpdateProgress(child.ID, lesson.ID, HeartbeatInput{TimeSpentSeconds: 20})
	if err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	if p.TimeSpentSeconds != 20 {
		t.Errorf("time = %d, want 20", p.TimeSpentSeconds)
	}

	slideID := slides[1].ID
	p, err = e.progressSv.UpdateProgress(child.ID, lesson.ID, HeartbeatInput{TimeSpentSeconds: 10, LastSlideID: &slideID})
	if err != nil {
		t.Fatalf("heartbeat with slide: %v", err)
	}
	if p.TimeSpentSeconds != 30 {
		t.Errorf("time = %d, want 30", p.TimeSpentSeconds)
	}
	if p.LastSlideID == nil || *p.LastSlideID != slideID {
		t.Errorf("last slide = %v, want %d", p.LastSlideID, slideID)
	}

	// 续播位置必须属于本课件
	_, otherSlides := e.mustCreateContentLesson(t, 1, model.CompletionRules{})
	foreign := otherSlides[0].ID
	if _, err := e.progressSv.UpdateProgress(child.ID, lesson.ID, HeartbeatInput{TimeSpentSeconds: 1, LastSlideID: &foreign}); !errors.Is(err, util.ErrSlideNotFound) {
		t.Errorf("foreign resume slide: got %v, want ErrSlideNotFound", err)
	}
}

func TestCheckCompletionBySlideRule(t *testing.T) {
	e, lesson, slides, child := setupProgress(t, 2, model.CompletionRules{MinSlidesViewed: 2})
	if _, _, err := e.progressSv.Start(child.ID, lesson.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := e.progressSv.RecordSlideView(child.ID, lesson.ID, SlideViewInput{SlideID: slides[0].ID}); err != nil {
		t.Fatalf("view: %v", err)
	}
	_, completed, err := e.progressSv.CheckCompletion(child.ID, lesson.ID)
	if err != nil {
		t.Fatalf("CheckCompletion: %v", err)
	}
	if completed {
		t.Error("should not complete with 1 of 2 slides viewed")
	}

	if _, err := e.progressSv.RecordSlideView(child.ID, lesson.ID, SlideViewInput{SlideID: slides[1].ID}); err != nil {
		t.Fatalf("view: %v", err)
	}
	p, completed, err := e.progressSv.CheckCompletion(child.ID, lesson.ID)
	if err != nil {
		t.Fatalf("CheckCompletion: %v", err)
	}
	if !completed || p.CompletedAt == nil || p.Status != model.ProgressCompleted {
		t.Errorf("completion not recorded: %+v", p)
	}

	// 再次判定不改动完成时间
	stamp := *p.CompletedAt
	p2, completed, err := e.progressSv.CheckCompletion(child.ID, lesson.ID)
	if err != nil || !completed {
		t.Fatalf("repeat CheckCompletion: %v completed=%v", err, completed)
	}
	if !p2.CompletedAt.Equal(stamp) {
		t.Errorf("completed_at changed on repeat check")
	}
}

func TestRecordInteractionAndConfidence(t *testing.T) {
	e, lesson, slides, child := setupProgress(t, 1, model.CompletionRules{})
	if _, _, err := e.progressSv.Start(child.ID, lesson.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	slideID := slides[0].ID

	inter, err := e.progressSv.RecordInteraction(child.ID, lesson.ID, InteractionInput{
		SlideID: slideID, Type: model.InteractionHelpRequest, Data: map[string]interface{}{"note": "看不懂"},
	})
	if err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	if len(inter.HelpRequests) != 1 || inter.HelpRequests[0].Type != model.InteractionHelpRequest {
		t.Errorf("help requests = %+v", inter.HelpRequests)
	}

	inter, err = e.progressSv.RecordInteraction(child.ID, lesson.ID, InteractionInput{
		SlideID: slideID, Type: model.InteractionFlagDifficult,
	})
	if err != nil {
		t.Fatalf("flag difficult: %v", err)
	}
	if !inter.FlaggedDifficult {
		t.Error("FlaggedDifficult not set")
	}
	// 疑难标记不进帮助日志
	if len(inter.HelpRequests) != 1 {
		t.Errorf("help requests grew on flag: %+v", inter.HelpRequests)
	}

	if _, err := e.progressSv.RecordInteraction(child.ID, lesson.ID, InteractionInput{
		SlideID: slideID, Type: "unknown_kind",
	}); err == nil {
		t.Error("unknown interaction type should error")
	}

	if _, err := e.progressSv.SubmitConfidence(child.ID, lesson.ID, slideID, 6); !errors.Is(err, util.ErrInvalidRating) {
		t.Errorf("rating 6: got %v, want ErrInvalidRating", err)
	}
	inter, err = e.progressSv.SubmitConfidence(child.ID, lesson.ID, slideID, 4)
	if err != nil {
		t.Fatalf("SubmitConfidence: %v", err)
	}
	if inter.ConfidenceRating == nil || *inter.ConfidenceRating != 4 {
		t.Errorf("rating = %v, want 4", inter.ConfidenceRating)
	}
}

func TestSummaryCountsFlaggedAndUploads(t *testing.T) {
	e, lesson, slides, child := setupProgress(t, 2, model.CompletionRules{})
	if _, _, err := e.progressSv.Start(child.ID, lesson.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := e.progressSv.RecordInteraction(child.ID, lesson.ID, InteractionInput{
		SlideID: slides[0].ID, Type: model.InteractionFlagDifficult,
	}); err != nil {
		t.Fatalf("flag: %v", err)
	}

	summary, err := e.progressSv.Summary(child.ID, lesson.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.FlaggedCount != 1 {
		t.Errorf("FlaggedCount = %d, want 1", summary.FlaggedCount)
	}
	if len(summary.Interactions) != 1 {
		t.Errorf("Interactions = %d, want 1", len(summary.Interactions))
	}
}
