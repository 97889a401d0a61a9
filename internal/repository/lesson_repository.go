package repository

import (
	"tutorhub_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) List(page, pageSize int) ([]model.Lesson, int64, error) {
	var lessons []model.Lesson
	var total int64

	if err := r.DB.Model(&model.Lesson{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.DB.Order("start_time DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&lessons).Error
	return lessons, total, err
}

func (r *LessonRepository) ListByTutor(tutorID uint, page, pageSize int) ([]model.Lesson, int64, error) {
	var lessons []model.Lesson
	var total int64

	q := r.DB.Model(&model.Lesson{}).Where("tutor_id = ?", tutorID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("start_time DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&lessons).Error
	return lessons, total, err
}

func (r *LessonRepository) Save(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Lesson{}, id).Error
}
