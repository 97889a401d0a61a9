package repository

import (
	"tutorhub_backend/internal/model"

	"gorm.io/gorm"
)

type ContentLessonRepository struct {
	DB *gorm.DB
}

func NewContentLessonRepository(db *gorm.DB) *ContentLessonRepository {
	return &ContentLessonRepository{DB: db}
}

func (r *ContentLessonRepository) Create(lesson *model.ContentLesson) error {
	return r.DB.Create(lesson).Error
}

func (r *ContentLessonRepository) FindByID(id uint) (*model.ContentLesson, error) {
	var lesson model.ContentLesson
	err := r.DB.First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *ContentLessonRepository) FindByUID(uid string) (*model.ContentLesson, error) {
	var lesson model.ContentLesson
	err := r.DB.Where("uid = ?", uid).First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *ContentLessonRepository) ListPublished(page, pageSize int) ([]model.ContentLesson, int64, error) {
	var lessons []model.ContentLesson
	var total int64

	q := r.DB.Model(&model.ContentLesson{}).Where("is_published = ?", true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&lessons).Error
	return lessons, total, err
}

func (r *ContentLessonRepository) Save(lesson *model.ContentLesson) error {
	return r.DB.Save(lesson).Error
}

func (r *ContentLessonRepository) Delete(id uint) error {
	return r.DB.Delete(&model.ContentLesson{}, id).Error
}

// ---- 幻灯片 ----

func (r *ContentLessonRepository) CreateSlide(slide *model.LessonSlide) error {
	return r.DB.Create(slide).Error
}

func (r *ContentLessonRepository) FindSlideByID(id uint) (*model.LessonSlide, error) {
	var slide model.LessonSlide
	err := r.DB.First(&slide, id).Error
	if err != nil {
		return nil, err
	}
	return &slide, nil
}

// SlidesByLesson 按播放顺序返回某课件的全部幻灯片
func (r *ContentLessonRepository) SlidesByLesson(contentLessonID uint) ([]model.LessonSlide, error) {
	var slides []model.LessonSlide
	err := r.DB.Where("content_lesson_id = ?", contentLessonID).
		Order("order_position ASC").
		Find(&slides).Error
	return slides, err
}

func (r *ContentLessonRepository) CountSlides(contentLessonID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonSlide{}).
		Where("content_lesson_id = ?", contentLessonID).
		Count(&count).Error
	return count, err
}

func (r *ContentLessonRepository) SaveSlide(slide *model.LessonSlide) error {
	return r.DB.Save(slide).Error
}

func (r *ContentLessonRepository) DeleteSlide(id uint) error {
	return r.DB.Delete(&model.LessonSlide{}, id).Error
}
