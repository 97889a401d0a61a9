package repository

import (
	"tutorhub_backend/internal/model"

	"gorm.io/gorm"
)

type UploadRepository struct {
	DB *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{DB: db}
}

func (r *UploadRepository) Create(upload *model.LessonUpload) error {
	return r.DB.Create(upload).Error
}

func (r *UploadRepository) FindByUUID(uuid string) (*model.LessonUpload, error) {
	var upload model.LessonUpload
	err := r.DB.Where("uuid = ?", uuid).First(&upload).Error
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *UploadRepository) ListByChildAndLesson(childID, contentLessonID uint) ([]model.LessonUpload, error) {
	var rows []model.LessonUpload
	err := r.DB.Where("child_id = ? AND content_lesson_id = ?", childID, contentLessonID).
		Order("uploaded_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *UploadRepository) CountByChildAndLesson(childID, contentLessonID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonUpload{}).
		Where("child_id = ? AND content_lesson_id = ?", childID, contentLessonID).
		Count(&count).Error
	return count, err
}

func (r *UploadRepository) Delete(uuid string) error {
	return r.DB.Where("uuid = ?", uuid).Delete(&model.LessonUpload{}).Error
}
