package repository

import (
	"tutorhub_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// FindByIDs 批量查题，用于课件播放时展开 question 块
func (r *QuestionRepository) FindByIDs(ids []uint) (map[uint]*model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return map[uint]*model.Question{}, nil
	}
	if err := r.DB.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	result := make(map[uint]*model.Question, len(questions))
	for i := range questions {
		result[questions[i].ID] = &questions[i]
	}
	return result, nil
}

func (r *QuestionRepository) List(page, pageSize int) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64

	if err := r.DB.Model(&model.Question{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.DB.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&questions).Error
	return questions, total, err
}

func (r *QuestionRepository) Save(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

// ---- 答题记录 ----

func (r *QuestionRepository) CreateResponse(resp *model.LessonQuestionResponse) error {
	return r.DB.Create(resp).Error
}

// CountAttempts 统计学员对某题块的历史提交次数，用于重试闸门
func (r *QuestionRepository) CountAttempts(progressID, questionID uint, blockID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonQuestionResponse{}).
		Where("lesson_progress_id = ? AND question_id = ? AND block_id = ?", progressID, questionID, blockID).
		Count(&count).Error
	return count, err
}

func (r *QuestionRepository) ListResponsesByProgress(progressID uint) ([]model.LessonQuestionResponse, error) {
	var rows []model.LessonQuestionResponse
	err := r.DB.Where("lesson_progress_id = ?", progressID).
		Order("answered_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *QuestionRepository) ListResponsesBySlide(progressID, slideID uint) ([]model.LessonQuestionResponse, error) {
	var rows []model.LessonQuestionResponse
	err := r.DB.Where("lesson_progress_id = ? AND slide_id = ?", progressID, slideID).
		Order("answered_at ASC").
		Find(&rows).Error
	return rows, err
}

// LatestResponses 每个 (question_id, block_id) 只保留最后一次提交，
// 汇总成绩按最新尝试计算。
func (r *QuestionRepository) LatestResponses(progressID uint) ([]model.LessonQuestionResponse, error) {
	rows, err := r.ListResponsesByProgress(progressID)
	if err != nil {
		return nil, err
	}
	type key struct {
		questionID uint
		blockID    string
	}
	latest := make(map[key]int, len(rows))
	order := make([]key, 0, len(rows))
	for i := range rows {
		k := key{rows[i].QuestionID, rows[i].BlockID}
		if _, seen := latest[k]; !seen {
			order = append(order, k)
		}
		latest[k] = i
	}
	result := make([]model.LessonQuestionResponse, 0, len(order))
	for _, k := range order {
		result = append(result, rows[latest[k]])
	}
	return result, nil
}
