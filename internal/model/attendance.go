package model

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// ValidAttendanceStatus 校验状态枚举
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// Attendance 一名学员在一节课某天的考勤行。
// (lesson_id, child_id, date) 上有唯一索引；历史数据仍可能存在重复行，
// 写入后会检测并以警告形式上报。
// 不走软删除：软删行会占住唯一键，导致同键考勤无法重建。
type Attendance struct {
	ID         uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
	LessonID   uint             `gorm:"index;type:bigint unsigned;not null;uniqueIndex:idx_attendance_key" json:"lessonId"`
	ChildID    uint             `gorm:"index;type:bigint unsigned;not null;uniqueIndex:idx_attendance_key" json:"childId"`
	Date       time.Time        `gorm:"type:date;not null;uniqueIndex:idx_attendance_key" json:"date"`
	Status     AttendanceStatus `gorm:"size:20;not null" json:"status"`
	Notes      string           `gorm:"size:500" json:"notes"`
	Approved   bool             `gorm:"default:false" json:"approved"`
	ApprovedBy *uint            `gorm:"type:bigint unsigned" json:"approvedBy,omitempty"`
	ApprovedAt *time.Time       `json:"approvedAt,omitempty"`
}

func (Attendance) TableName() string {
	return "attendances"
}
