package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/util"
)

// 一个家庭的完整流程：孩子学习课件到一半，导师整课点名，
// 管理员批量审批，之后导师无法再改动已审批的考勤。
func TestTutoringDayScenario(t *testing.T) {
	e := newTestEnv(t)
	tutor := &util.Claims{UserID: 10, Role: model.Tutor}
	admin := &util.Claims{UserID: 99, Role: model.Admin}

	child := e.mustCreateChild(t, 1, "Alice")
	content, slides := e.mustCreateContentLesson(t, 4, model.CompletionRules{MinSlidesViewed: 4})
	live := e.mustCreateLesson(t, "分数讲评课", time.Date(2026, 9, 2, 16, 0, 0, 0, time.UTC))

	grant := grantForContentLesson(child.ID, content.ID)
	grant.LessonID = &live.ID
	e.mustCreateGrant(t, grant)

	// 自学：4 页看 2 页，进度 50%，未达完成条件
	if _, _, err := e.progressSv.Start(child.ID, content.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for _, s := range slides[:2] {
		if _, err := e.progressSv.RecordSlideView(child.ID, content.ID, SlideViewInput{SlideID: s.ID}); err != nil {
			t.Fatalf("view: %v", err)
		}
	}
	p, completed, err := e.progressSv.CheckCompletion(child.ID, content.ID)
	if err != nil {
		t.Fatalf("CheckCompletion: %v", err)
	}
	if p.CompletionPercentage != 50 || completed {
		t.Errorf("progress = %d%% completed=%v, want 50%% not completed", p.CompletionPercentage, completed)
	}

	// 点名：名单来自授权，整课标记出席
	roster, err := e.roster.LessonRoster(context.Background(), live.ID)
	if err != nil {
		t.Fatalf("LessonRoster: %v", err)
	}
	if len(roster) != 1 || roster[0].ChildID != child.ID {
		t.Fatalf("roster = %+v, want just Alice", roster)
	}
	result, err := e.attendanceSv.MarkAll(context.Background(), tutor, MarkAllInput{LessonID: live.ID, Status: model.AttendancePresent})
	if err != nil {
		t.Fatalf("MarkAll: %v", err)
	}
	if result.Marked != 1 || len(result.Skipped) != 0 {
		t.Errorf("mark result = %+v", result)
	}

	// 审批后导师改不动
	approved, err := e.attendanceSv.ApproveAll(admin, live.ID)
	if err != nil || approved != 1 {
		t.Fatalf("ApproveAll = %d, %v", approved, err)
	}
	_, _, err = e.attendanceSv.RecordOne(tutor, RecordAttendanceInput{
		LessonID: live.ID, ChildID: child.ID, Status: model.AttendanceAbsent,
	})
	if !errors.Is(err, util.ErrAttendanceApproved) {
		t.Errorf("post-approval edit: got %v, want ErrAttendanceApproved", err)
	}
}
