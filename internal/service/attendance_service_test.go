package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/util"
)

var (
	tutorClaims = &util.Claims{UserID: 10, Role: model.Tutor}
	adminClaims = &util.Claims{UserID: 99, Role: model.Admin}
)

func setupAttendance(t *testing.T) (*testEnv, *model.Lesson, *model.Child) {
	t.Helper()
	e := newTestEnv(t)
	lesson := e.mustCreateLesson(t, "周三数学", time.Date(2026, 9, 2, 16, 0, 0, 0, time.UTC))
	child := e.mustCreateChild(t, 1, "Alice")
	e.mustCreateGrant(t, &model.AccessGrant{
		ChildID: child.ID, LessonID: &lesson.ID,
		Access: true, PaymentStatus: model.PaymentPaid,
	})
	return e, lesson, child
}

func TestRecordOneCreatesThenUpdates(t *testing.T) {
	e, lesson, child := setupAttendance(t)

	att, warning, err := e.attendanceSv.RecordOne(tutorClaims, RecordAttendanceInput{
		LessonID: lesson.ID, ChildID: child.ID, Status: model.AttendancePresent,
	})
	if err != nil {
		t.Fatalf("RecordOne: %v", err)
	}
	if warning != "" {
		t.Errorf("unexpected warning: %s", warning)
	}
	// 日期缺省取开课日
	if got := att.Date.Format("2006-01-02"); got != "2026-09-02" {
		t.Errorf("date = %s, want lesson start date", got)
	}

	// 同键重复提交更新原行
	again, _, err := e.attendanceSv.RecordOne(tutorClaims, RecordAttendanceInput{
		LessonID: lesson.ID, ChildID: child.ID, Status: model.AttendanceLate, Notes: "迟到10分钟",
	})
	if err != nil {
		t.Fatalf("RecordOne update: %v", err)
	}
	if again.ID != att.ID {
		t.Errorf("expected update of row %d, got new row %d", att.ID, again.ID)
	}
	if again.Status != model.AttendanceLate {
		t.Errorf("status = %s, want late", again.Status)
	}

	rows, _ := e.attendance.FindForKey(lesson.ID, child.ID, att.Date)
	if len(rows) != 1 {
		t.Fatalf("rows for key = %d, want 1", len(rows))
	}
}

func TestRecordOneRejectsInvalidInput(t *testing.T) {
	e, lesson, child := setupAttendance(t)

	_, _, err := e.attendanceSv.RecordOne(tutorClaims, RecordAttendanceInput{
		LessonID: lesson.ID, ChildID: child.ID, Status: "vanished",
	})
	if !errors.Is(err, util.ErrInvalidStatus) {
		t.Errorf("invalid status: got %v", err)
	}

	// 名单外学员
	stranger := e.mustCreateChild(t, 2, "Zed")
	_, _, err = e.attendanceSv.RecordOne(tutorClaims, RecordAttendanceInput{
		LessonID: lesson.ID, ChildID: stranger.ID, Status: model.AttendancePresent,
	})
	if !errors.Is(err, util.ErrNoLessonAccess) {
		t.Errorf("no access: got %v", err)
	}

	_, _, err = e.attendanceSv.RecordOne(tutorClaims, RecordAttendanceInput{
		LessonID: lesson.ID + 100, ChildID: child.ID, Status: model.AttendancePresent,
	})
	if !errors.Is(err, util.ErrLessonNotFound) {
		t.Errorf("missing lesson: got %v", err)
	}
}

func TestApprovedRowImmutableForNonAdmin(t *testing.T) {
	e, lesson, child := setupAttendance(t)

	att, _, err := e.attendanceSv.RecordOne(tutorClaims, RecordAttendanceInput{
		LessonID: lesson.ID, ChildID: child.ID, Status: model.AttendancePresent,
	})
	if err != nil {
		t.Fatalf("RecordOne: %v", err)
	}

	if _, err := e.attendanceSv.Approve(adminClaims, att.ID, model.AttendancePresent, true); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	// 导师改不动已审批行
	_, _, err = e.attendanceSv.RecordOne(tutorClaims, RecordAttendanceInput{
		LessonID: lesson.ID, ChildID: child.ID, Status: model.AttendanceAbsent,
	})
	if !errors.Is(err, util.ErrAttendanceApproved) {
		t.Errorf("tutor overwrite: got %v, want ErrAttendanceApproved", err)
	}

	// 管理员可以
	updated, _, err := e.attendanceSv.RecordOne(adminClaims, RecordAttendanceInput{
		LessonID: lesson.ID, ChildID: child.ID, Status: model.AttendanceAbsent,
	})
	if err != nil {
		t.Fatalf("admin overwrite: %v", err)
	}
	if updated.Status != model.AttendanceAbsent {
		t.Errorf("status = %s, want absent", updated.Status)
	}
}

func TestApproveRequiresAdmin(t *testing.T) {
	e, lesson, child := setupAttendance(t)
	att, _, _ := e.attendanceSv.RecordOne(tutorClaims, RecordAttendanceInput{
		LessonID: lesson.ID, ChildID: child.ID, Status: model.AttendancePresent,
	})

	if _, err := e.attendanceSv.Approve(tutorClaims, att.ID, model.AttendancePresent, true); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("tutor approve: got %v, want ErrPermissionDenied", err)
	}

	approved, err := e.attendanceSv.Approve(adminClaims, att.ID, model.AttendancePresent, true)
	if err != nil {
		t.Fatalf("admin approve: %v", err)
	}
	if !approved.Approved || approved.ApprovedBy == nil || *approved.ApprovedBy != adminClaims.UserID {
		t.Errorf("approval metadata wrong: %+v", approved)
	}
}

func TestApproveSetsStatusAndUnapproveClears(t *testing.T) {
	e, lesson, child := setupAttendance(t)
	att, _, _ := e.attendanceSv.RecordOne(tutorClaims, RecordAttendanceInput{
		LessonID: lesson.ID, ChildID: child.ID, Status: model.AttendancePresent,
	})

	// 审批同时落定新状态
	approved, err := e.attendanceSv.Approve(adminClaims, att.ID, model.AttendanceLate, true)
	if err != nil {
		t.Fatalf("Approve with status: %v", err)
	}
	if approved.Status != model.AttendanceLate || !approved.Approved {
		t.Errorf("row = %+v, want late/approved", approved)
	}

	// 已审批行可带新状态重新审批
	reapproved, err := e.attendanceSv.Approve(adminClaims, att.ID, model.AttendanceExcused, true)
	if err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if reapproved.Status != model.AttendanceExcused || !reapproved.Approved {
		t.Errorf("row = %+v, want excused/approved", reapproved)
	}

	// 撤销审批清空审批人信息
	revoked, err := e.attendanceSv.Approve(adminClaims, att.ID, model.AttendanceExcused, false)
	if err != nil {
		t.Fatalf("un-approve: %v", err)
	}
	if revoked.Approved || revoked.ApprovedBy != nil || revoked.ApprovedAt != nil {
		t.Errorf("approver fields not cleared: %+v", revoked)
	}

	// 撤销后导师又可以改动
	if _, _, err := e.attendanceSv.RecordOne(tutorClaims, RecordAttendanceInput{
		LessonID: lesson.ID, ChildID: child.ID, Status: model.AttendanceAbsent,
	}); err != nil {
		t.Errorf("tutor edit after un-approval: %v", err)
	}

	if _, err := e.attendanceSv.Approve(adminClaims, att.ID, "vanished", true); !errors.Is(err, util.ErrInvalidStatus) {
		t.Errorf("invalid status: got %v, want ErrInvalidStatus", err)
	}
}

func TestMarkAllSkipsApprovedRows(t *testing.T) {
	e, lesson, alice := setupAttendance(t)
	bob := e.mustCreateChild(t, 2, "Bob")
	e.mustCreateGrant(t, &model.AccessGrant{
		ChildID: bob.ID, LessonID: &lesson.ID,
		Access: true, PaymentStatus: model.PaymentPaid,
	})

	// alice 已有审批行
	att, _, _ := e.attendanceSv.RecordOne(tutorClaims, RecordAttendanceInput{
		LessonID: lesson.ID, ChildID: alice.ID, Status: model.AttendancePresent,
	})
	if _, err := e.attendanceSv.Approve(adminClaims, att.ID, model.AttendancePresent, true); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	// 名单由授权推导，alice 和 bob 都在内
	result, err := e.attendanceSv.MarkAll(context.Background(), tutorClaims, MarkAllInput{
		LessonID: lesson.ID, Status: model.AttendanceAbsent,
	})
	if err != nil {
		t.Fatalf("MarkAll: %v", err)
	}
	if result.Marked != 1 {
		t.Errorf("Marked = %d, want 1", result.Marked)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != alice.ID {
		t.Errorf("Skipped = %v, want [%d]", result.Skipped, alice.ID)
	}

	// alice 的已审批行未被改动，bob 新建为缺席
	rows, _ := e.attendance.FindForKey(lesson.ID, alice.ID, att.Date)
	if rows[0].Status != model.AttendancePresent {
		t.Errorf("approved row was modified: %s", rows[0].Status)
	}
	bobRows, _ := e.attendance.FindForKey(lesson.ID, bob.ID, att.Date)
	if len(bobRows) != 1 || bobRows[0].Status != model.AttendanceAbsent {
		t.Errorf("bob rows = %+v, want one absent row", bobRows)
	}
}

func TestMarkAllDerivesRosterFromGrants(t *testing.T) {
	e, lesson, alice := setupAttendance(t)
	bob := e.mustCreateChild(t, 2, "Bob")
	e.mustCreateGrant(t, &model.AccessGrant{
		ChildID: bob.ID, LessonID: &lesson.ID,
		Access: true, PaymentStatus: model.PaymentPaid,
	})
	// 名单外学员不应被点到
	e.mustCreateChild(t, 3, "Zed")

	result, err := e.attendanceSv.MarkAll(context.Background(), tutorClaims, MarkAllInput{
		LessonID: lesson.ID, Status: model.AttendancePresent, Notes: "第一节课",
	})
	if err != nil {
		t.Fatalf("MarkAll: %v", err)
	}
	if result.Marked != 2 {
		t.Errorf("Marked = %d, want 2", result.Marked)
	}
	if len(result.Skipped) != 0 {
		t.Errorf("Skipped = %v, want none", result.Skipped)
	}

	rows, _ := e.attendance.ListByLesson(lesson.ID)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	marked := map[uint]bool{}
	for _, row := range rows {
		marked[row.ChildID] = true
		if row.Status != model.AttendancePresent || row.Approved {
			t.Errorf("row %+v, want unapproved present", row)
		}
		if row.Notes != "第一节课" {
			t.Errorf("notes = %q", row.Notes)
		}
	}
	if !marked[alice.ID] || !marked[bob.ID] {
		t.Errorf("marked children = %v, want alice and bob", marked)
	}

	if _, err := e.attendanceSv.MarkAll(context.Background(), tutorClaims, MarkAllInput{
		LessonID: lesson.ID, Status: "vanished",
	}); !errors.Is(err, util.ErrInvalidStatus) {
		t.Errorf("invalid status: got %v, want ErrInvalidStatus", err)
	}
}

func TestDeletedRowFreesAttendanceKey(t *testing.T) {
	e, lesson, child := setupAttendance(t)

	att, _, err := e.attendanceSv.RecordOne(tutorClaims, RecordAttendanceInput{
		LessonID: lesson.ID, ChildID: child.ID, Status: model.AttendancePresent,
	})
	if err != nil {
		t.Fatalf("RecordOne: %v", err)
	}

	if err := e.db.Delete(&model.Attendance{}, att.ID).Error; err != nil {
		t.Fatalf("delete: %v", err)
	}

	// 同键考勤可以重建
	again, _, err := e.attendanceSv.RecordOne(tutorClaims, RecordAttendanceInput{
		LessonID: lesson.ID, ChildID: child.ID, Status: model.AttendanceLate,
	})
	if err != nil {
		t.Fatalf("RecordOne after delete: %v", err)
	}
	if again.ID == att.ID {
		t.Errorf("expected a fresh row, got reused id %d", att.ID)
	}
	if again.Status != model.AttendanceLate {
		t.Errorf("status = %s, want late", again.Status)
	}
}

func TestApproveAllCoversAllDates(t *testing.T) {
	e, lesson, child := setupAttendance(t)

	for _, date := range []string{"2026-09-02", "2026-09-09", "2026-09-16"} {
		if _, _, err := e.attendanceSv.RecordOne(tutorClaims, RecordAttendanceInput{
			LessonID: lesson.ID, ChildID: child.ID, Date: date, Status: model.AttendancePresent,
		}); err != nil {
			t.Fatalf("RecordOne %s: %v", date, err)
		}
	}

	count, err := e.attendanceSv.ApproveAll(adminClaims, lesson.ID)
	if err != nil {
		t.Fatalf("ApproveAll: %v", err)
	}
	if count != 3 {
		t.Errorf("approved = %d, want 3", count)
	}

	rows, _ := e.attendance.ListByLesson(lesson.ID)
	for _, row := range rows {
		if !row.Approved {
			t.Errorf("row %d on %s not approved", row.ID, row.Date.Format("2006-01-02"))
		}
	}

	// 重复执行无事可做
	count, _ = e.attendanceSv.ApproveAll(adminClaims, lesson.ID)
	if count != 0 {
		t.Errorf("second ApproveAll = %d, want 0", count)
	}
}

func TestSheetPairsRosterWithAttendance(t *testing.T) {
	e, lesson, alice := setupAttendance(t)
	bob := e.mustCreateChild(t, 2, "Bob")
	e.mustCreateGrant(t, &model.AccessGrant{
		ChildID: bob.ID, LessonID: &lesson.ID,
		Access: true, PaymentStatus: model.PaymentPaid,
	})

	if _, _, err := e.attendanceSv.RecordOne(tutorClaims, RecordAttendanceInput{
		LessonID: lesson.ID, ChildID: alice.ID, Status: model.AttendancePresent,
	}); err != nil {
		t.Fatalf("RecordOne: %v", err)
	}

	sheet, err := e.attendanceSv.Sheet(context.Background(), lesson.ID, "")
	if err != nil {
		t.Fatalf("Sheet: %v", err)
	}
	if len(sheet) != 2 {
		t.Fatalf("sheet size = %d, want 2", len(sheet))
	}

	byName := map[string]SheetRow{}
	for _, row := range sheet {
		byName[row.ChildName] = row
	}
	if byName["Alice"].Attendance == nil || byName["Alice"].Attendance.Status != model.AttendancePresent {
		t.Error("alice should have a present row")
	}
	if byName["Bob"].Attendance != nil {
		t.Error("bob should have no attendance yet")
	}
}
