package repository

import (
	"time"
	"tutorhub_backend/internal/model"

	"gorm.io/gorm"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

func (r *AttendanceRepository) Create(att *model.Attendance) error {
	return r.DB.Create(att).Error
}

func (r *AttendanceRepository) FindByID(id uint) (*model.Attendance, error) {
	var att model.Attendance
	err := r.DB.First(&att, id).Error
	if err != nil {
		return nil, err
	}
	return &att, nil
}

// FindForKey 按 (课次, 学员, 日期) 返回全部匹配行。
// 正常只有一行；返回多行说明存在历史重复数据，由服务层上报警告。
func (r *AttendanceRepository) FindForKey(lessonID, childID uint, date time.Time) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.DB.Where("lesson_id = ? AND child_id = ? AND date = ?", lessonID, childID, date).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *AttendanceRepository) ListByLessonAndDate(lessonID uint, date time.Time) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.DB.Where("lesson_id = ? AND date = ?", lessonID, date).
		Order("child_id ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *AttendanceRepository) ListByLesson(lessonID uint) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.DB.Where("lesson_id = ?", lessonID).
		Order("date ASC, child_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *AttendanceRepository) ListByChild(childID uint) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.DB.Where("child_id = ?", childID).
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *AttendanceRepository) Save(att *model.Attendance) error {
	return r.DB.Save(att).Error
}

// ApproveAllByLesson 批量审批某课次的全部未审批行（跨所有日期）。
// 返回受影响行数。
func (r *AttendanceRepository) ApproveAllByLesson(lessonID, approverID uint, now time.Time) (int64, error) {
	result := r.DB.Model(&model.Attendance{}).
		Where("lesson_id = ? AND approved = ?", lessonID, false).
		Updates(map[string]interface{}{
			"approved":    true,
			"approved_by": approverID,
			"approved_at": now,
		})
	return result.RowsAffected, result.Error
}
