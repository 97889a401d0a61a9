package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/repository"
	"tutorhub_backend/internal/util"
	"tutorhub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttendanceService 考勤记录与审批。
// 同一 (课次, 学员, 日期) 只保留一行；重复提交更新原行而不是新建。
// 已审批的行对非管理员只读。
type AttendanceService struct {
	AttendanceRepo *repository.AttendanceRepository
	LessonRepo     *repository.LessonRepository
	Roster         *RosterService
}

func NewAttendanceService(attendanceRepo *repository.AttendanceRepository,
	lessonRepo *repository.LessonRepository, roster *RosterService) *AttendanceService {
	return &AttendanceService{
		AttendanceRepo: attendanceRepo,
		LessonRepo:     lessonRepo,
		Roster:         roster,
	}
}

type RecordAttendanceInput struct {
	LessonID uint                   `json:"lessonId" binding:"required"`
	ChildID  uint                   `json:"childId" binding:"required"`
	Date     string                 `json:"date"` // YYYY-MM-DD，缺省取课次开课日
	Status   model.AttendanceStatus `json:"status" binding:"required"`
	Notes    string                 `json:"notes"`
}

// normalizeDate 解析 YYYY-MM-DD 并截断到 UTC 零点
func normalizeDate(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return util.TruncateToDay(fallback), nil
	}
	t, err := util.ParseDay(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("日期格式错误: %w", err)
	}
	return t, nil
}

// RecordOne 记录或更新一条考勤。
// 返回的 warning 非空表示该键存在历史重复行，本次只更新了最早一行。
func (s *AttendanceService) RecordOne(actor *util.Claims, input RecordAttendanceInput) (*model.Attendance, string, error) {
	if !model.ValidAttendanceStatus(input.Status) {
		return nil, "", util.ErrInvalidStatus
	}

	lesson, err := s.LessonRepo.FindByID(input.LessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", util.ErrLessonNotFound
		}
		return nil, "", err
	}

	ok, err := s.Roster.HasLessonAccess(input.ChildID, input.LessonID)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", util.ErrNoLessonAccess
	}

	date, err := normalizeDate(input.Date, lesson.StartTime)
	if err != nil {
		return nil, "", err
	}

	rows, err := s.AttendanceRepo.FindForKey(input.LessonID, input.ChildID, date)
	if err != nil {
		return nil, "", err
	}

	var warning string
	if len(rows) > 1 {
		warning = fmt.Sprintf("该学员当日存在 %d 条重复考勤记录，请联系管理员清理", len(rows))
		logger.Log.Warn("检测到重复考勤行",
			zap.Uint("lessonID", input.LessonID),
			zap.Uint("childID", input.ChildID),
			zap.Int("count", len(rows)))
	}

	if len(rows) == 0 {
		att := &model.Attendance{
			LessonID: input.LessonID,
			ChildID:  input.ChildID,
			Date:     date,
			Status:   input.Status,
			Notes:    input.Notes,
		}
		if err := s.AttendanceRepo.Create(att); err != nil {
			return nil, "", err
		}
		return att, warning, nil
	}

	att := &rows[0]
	if att.Approved && !actor.IsAdmin() {
		return nil, "", util.ErrAttendanceApproved
	}
	att.Status = input.Status
	att.Notes = input.Notes
	if err := s.AttendanceRepo.Save(att); err != nil {
		return nil, "", err
	}
	return att, warning, nil
}

type MarkAllInput struct {
	LessonID uint                   `json:"lessonId" binding:"required"`
	Date     string                 `json:"date"`
	Status   model.AttendanceStatus `json:"status" binding:"required"`
	Notes    string                 `json:"notes"`
}

// MarkAllResult 批量点名结果；Skipped 为因已审批而未改动的学员
type MarkAllResult struct {
	Marked   int      `json:"marked"`
	Skipped  []uint   `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

// MarkAll 整个课次一键点名：名单由有效授权推导，
// 名单内每名学员按 RecordOne 语义写入同一状态。
// 已审批的行跳过并记入 Skipped。
func (s *AttendanceService) MarkAll(ctx context.Context, actor *util.Claims, input MarkAllInput) (*MarkAllResult, error) {
	if !model.ValidAttendanceStatus(input.Status) {
		return nil, util.ErrInvalidStatus
	}

	lesson, err := s.LessonRepo.FindByID(input.LessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	date, err := normalizeDate(input.Date, lesson.StartTime)
	if err != nil {
		return nil, err
	}

	roster, err := s.Roster.LessonRoster(ctx, input.LessonID)
	if err != nil {
		return nil, err
	}

	result := &MarkAllResult{Skipped: []uint{}}
	for _, entry := range roster {
		rows, err := s.AttendanceRepo.FindForKey(input.LessonID, entry.ChildID, date)
		if err != nil {
			return nil, err
		}
		if len(rows) > 1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("学员 %d 当日存在 %d 条重复考勤记录", entry.ChildID, len(rows)))
		}

		if len(rows) == 0 {
			att := &model.Attendance{
				LessonID: input.LessonID,
				ChildID:  entry.ChildID,
				Date:     date,
				Status:   input.Status,
				Notes:    input.Notes,
			}
			if err := s.AttendanceRepo.Create(att); err != nil {
				return nil, err
			}
			result.Marked++
			continue
		}

		att := &rows[0]
		if att.Approved && !actor.IsAdmin() {
			result.Skipped = append(result.Skipped, entry.ChildID)
			continue
		}
		att.Status = input.Status
		att.Notes = input.Notes
		if err := s.AttendanceRepo.Save(att); err != nil {
			return nil, err
		}
		result.Marked++
	}

	return result, nil
}

// Approve 审批单条考勤，仅管理员。
// 状态、审批标记、审批人和时间一次落库；approve=false 撤销审批并清空审批人信息。
// 已审批的行允许管理员带新状态重新审批。
func (s *AttendanceService) Approve(actor *util.Claims, attendanceID uint, status model.AttendanceStatus, approve bool) (*model.Attendance, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}
	if !model.ValidAttendanceStatus(status) {
		return nil, util.ErrInvalidStatus
	}
	att, err := s.AttendanceRepo.FindByID(attendanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttendanceNotFound
		}
		return nil, err
	}

	att.Status = status
	if approve {
		now := time.Now()
		att.Approved = true
		att.ApprovedBy = &actor.UserID
		att.ApprovedAt = &now
	} else {
		att.Approved = false
		att.ApprovedBy = nil
		att.ApprovedAt = nil
	}
	if err := s.AttendanceRepo.Save(att); err != nil {
		return nil, err
	}
	return att, nil
}

// ApproveAll 审批某课次的全部未审批考勤（跨所有日期），返回审批行数
func (s *AttendanceService) ApproveAll(actor *util.Claims, lessonID uint) (int64, error) {
	if !actor.IsAdmin() {
		return 0, util.ErrPermissionDenied
	}
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrLessonNotFound
		}
		return 0, err
	}
	count, err := s.AttendanceRepo.ApproveAllByLesson(lessonID, actor.UserID, time.Now())
	if err != nil {
		return 0, err
	}
	logger.Log.Info("批量审批考勤", zap.Uint("lessonID", lessonID), zap.Int64("count", count))
	return count, nil
}

// SheetRow 点名表中的一行：名单学员 + 当日考勤（可能尚未记录）
type SheetRow struct {
	RosterEntry
	Attendance *model.Attendance `json:"attendance,omitempty"`
}

// Sheet 返回某课次某天的点名表：名单与已有考勤并排
func (s *AttendanceService) Sheet(ctx context.Context, lessonID uint, rawDate string) ([]SheetRow, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	date, err := normalizeDate(rawDate, lesson.StartTime)
	if err != nil {
		return nil, err
	}

	roster, err := s.Roster.LessonRoster(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	rows, err := s.AttendanceRepo.ListByLessonAndDate(lessonID, date)
	if err != nil {
		return nil, err
	}
	byChild := make(map[uint]*model.Attendance, len(rows))
	for i := range rows {
		if _, exists := byChild[rows[i].ChildID]; !exists {
			byChild[rows[i].ChildID] = &rows[i]
		}
	}

	sheet := make([]SheetRow, 0, len(roster))
	for _, entry := range roster {
		sheet = append(sheet, SheetRow{RosterEntry: entry, Attendance: byChild[entry.ChildID]})
	}
	return sheet, nil
}

// Overview 某课次全部日期的考勤汇总
type Overview struct {
	LessonID uint                           `json:"lessonId"`
	Total    int                            `json:"total"`
	Approved int                            `json:"approved"`
	ByStatus map[model.AttendanceStatus]int `json:"byStatus"`
	ByDate   map[string][]model.Attendance  `json:"byDate"`
}

func (s *AttendanceService) LessonOverview(lessonID uint) (*Overview, error) {
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	rows, err := s.AttendanceRepo.ListByLesson(lessonID)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		LessonID: lessonID,
		Total:    len(rows),
		ByStatus: make(map[model.AttendanceStatus]int),
		ByDate:   make(map[string][]model.Attendance),
	}
	for _, row := range rows {
		overview.ByStatus[row.Status]++
		if row.Approved {
			overview.Approved++
		}
		key := row.Date.Format(util.DayFormat)
		overview.ByDate[key] = append(overview.ByDate[key], row)
	}
	return overview, nil
}

// ChildHistory 单个学员的考勤历史
func (s *AttendanceService) ChildHistory(childID uint) ([]model.Attendance, error) {
	return s.AttendanceRepo.ListByChild(childID)
}
