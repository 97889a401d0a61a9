package repository

import (
	"errors"
	"tutorhub_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// FirstOrCreate 返回 (child, lesson) 的进度行，不存在则用 defaults 创建。
// 重复调用幂等，第二个返回值表示是否新建。
func (r *ProgressRepository) FirstOrCreate(childID, lessonID uint, defaults *model.LessonProgress) (*model.LessonProgress, bool, error) {
	var progress model.LessonProgress
	err := r.DB.Where("child_id = ? AND lesson_id = ?", childID, lessonID).
		First(&progress).Error
	if err == nil {
		return &progress, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	defaults.ChildID = childID
	defaults.LessonID = lessonID
	if err := r.DB.Create(defaults).Error; err != nil {
		return nil, false, err
	}
	return defaults, true, nil
}

func (r *ProgressRepository) Find(childID, lessonID uint) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := r.DB.Where("child_id = ? AND lesson_id = ?", childID, lessonID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) FindByID(id uint) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := r.DB.First(&progress, id).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) ListByChild(childID uint) ([]model.LessonProgress, error) {
	var rows []model.LessonProgress
	err := r.DB.Where("child_id = ?", childID).
		Order("last_accessed_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) Save(progress *model.LessonProgress) error {
	return r.DB.Save(progress).Error
}

// AddTimeSpent 原子累加学习时长
func (r *ProgressRepository) AddTimeSpent(progressID uint, seconds int) error {
	return r.DB.Model(&model.LessonProgress{}).
		Where("id = ?", progressID).
		UpdateColumn("time_spent_seconds", gorm.Expr("time_spent_seconds + ?", seconds)).Error
}

// ---- 幻灯片交互 ----

func (r *ProgressRepository) FindInteraction(childID, slideID, progressID uint) (*model.SlideInteraction, error) {
	var inter model.SlideInteraction
	err := r.DB.Where("child_id = ? AND slide_id = ? AND lesson_progress_id = ?", childID, slideID, progressID).
		First(&inter).Error
	if err != nil {
		return nil, err
	}
	return &inter, nil
}

func (r *ProgressRepository) CreateInteraction(inter *model.SlideInteraction) error {
	return r.DB.Create(inter).Error
}

func (r *ProgressRepository) SaveInteraction(inter *model.SlideInteraction) error {
	return r.DB.Save(inter).Error
}

func (r *ProgressRepository) ListInteractions(progressID uint) ([]model.SlideInteraction, error) {
	var rows []model.SlideInteraction
	err := r.DB.Where("lesson_progress_id = ?", progressID).
		Order("slide_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) CountFlaggedDifficult(progressID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.SlideInteraction{}).
		Where("lesson_progress_id = ? AND flagged_difficult = ?", progressID, true).
		Count(&count).Error
	return count, err
}
