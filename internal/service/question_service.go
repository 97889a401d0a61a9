package service

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"tutorhub_backend/internal/grading"
	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/repository"
	"tutorhub_backend/internal/util"
	"tutorhub_backend/pkg/logger"
	"tutorhub_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuestionService 课件内答题的提交与判分。
// 判分结果落 lesson_question_responses，进度上的汇总成绩
// 每次提交后从全部最新尝试重新计算，不做增量累加。
type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	ProgressRepo *repository.ProgressRepository
	ContentRepo  *repository.ContentLessonRepository
	Progress     *ProgressService
	Notification *NotificationService
	Grader       *grading.Grader
}

func NewQuestionService(questionRepo *repository.QuestionRepository, progressRepo *repository.ProgressRepository,
	contentRepo *repository.ContentLessonRepository, progress *ProgressService,
	notification *NotificationService) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		ProgressRepo: progressRepo,
		ContentRepo:  contentRepo,
		Progress:     progress,
		Notification: notification,
		Grader:       grading.New(),
	}
}

type SubmitAnswerInput struct {
	SlideID          uint            `json:"slideId" binding:"required"`
	BlockID          string          `json:"blockId" binding:"required"`
	Answer           json.RawMessage `json:"answer" binding:"required"`
	TimeSpentSeconds int             `json:"timeSpentSeconds"`
	HintsUsed        []string        `json:"hintsUsed"`
}

// SubmitResult 单次提交的判分结果
type SubmitResult struct {
	Response  *model.LessonQuestionResponse `json:"response"`
	IsCorrect bool                          `json:"isCorrect"`
	Score     float64                       `json:"score"`
	MaxScore  float64                       `json:"maxScore"`
	Feedback  string                        `json:"feedback"`
	Attempt   int                           `json:"attempt"`
	Completed bool                          `json:"completed"`
}

// SubmitResponse 提交一次答案并同步判分。
// 重试受题块策略约束：retry_allowed=false 时只允许一次提交，
// max_attempts>0 时超过上限拒绝。
func (s *QuestionService) SubmitResponse(childID, contentLessonID uint, input SubmitAnswerInput) (*SubmitResult, error) {
	progress, err := s.ProgressRepo.Find(childID, contentLessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProgressNotFound
		}
		return nil, err
	}

	slide, err := s.ContentRepo.FindSlideByID(input.SlideID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSlideNotFound
		}
		return nil, err
	}
	if slide.ContentLessonID != contentLessonID {
		return nil, util.ErrSlideNotFound
	}

	block := slide.FindBlock(input.BlockID)
	if block == nil || block.Type != model.BlockTypeQuestion || block.Content.QuestionID == 0 {
		return nil, util.ErrBlockNotFound
	}
	questionID := block.Content.QuestionID

	attempts, err := s.QuestionRepo.CountAttempts(progress.ID, questionID, input.BlockID)
	if err != nil {
		return nil, err
	}
	if attempts > 0 {
		if !block.Content.RetryAllowed {
			return nil, util.ErrRetryNotAllowed
		}
		if block.Content.MaxAttempts > 0 && int(attempts) >= block.Content.MaxAttempts {
			return nil, util.ErrMaxAttemptsReached
		}
	}

	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	answer := grading.NormalizeAnswer(question, input.Answer)
	verdict := s.Grader.Grade(question, answer)

	resp := &model.LessonQuestionResponse{
		ChildID:          childID,
		LessonProgressID: progress.ID,
		SlideID:          input.SlideID,
		BlockID:          input.BlockID,
		QuestionID:       questionID,
		AnswerData:       answer,
		IsCorrect:        verdict.IsCorrect,
		ScoreEarned:      verdict.Score,
		ScorePossible:    verdict.MaxScore,
		AttemptNumber:    int(attempts) + 1,
		TimeSpentSeconds: input.TimeSpentSeconds,
		HintsUsed:        input.HintsUsed,
		Feedback:         verdict.Feedback,
		AnsweredAt:       time.Now(),
	}
	if err := s.QuestionRepo.CreateResponse(resp); err != nil {
		return nil, err
	}

	monitoring.GradedSubmissions.WithLabelValues(string(question.QuestionType), strconv.FormatBool(verdict.IsCorrect)).Inc()

	if err := s.recomputeScores(progress); err != nil {
		return nil, err
	}

	// 通知异步发送，失败不影响判分结果
	go s.Notification.NotifyGraded(childID, question, verdict.IsCorrect, verdict.Score)

	_, completed, err := s.Progress.CheckCompletion(childID, contentLessonID)
	if err != nil {
		logger.Log.Warn("答题后完成判定失败", zap.Uint("childID", childID), zap.Error(err))
		completed = false
	}

	return &SubmitResult{
		Response:  resp,
		IsCorrect: verdict.IsCorrect,
		Score:     verdict.Score,
		MaxScore:  verdict.MaxScore,
		Feedback:  verdict.Feedback,
		Attempt:   resp.AttemptNumber,
		Completed: completed,
	}, nil
}

// recomputeScores 从每题最新一次尝试重算进度上的答题汇总。
// questions_score = Σ得分 / Σ满分 × 100。
func (s *QuestionService) recomputeScores(progress *model.LessonProgress) error {
	latest, err := s.QuestionRepo.LatestResponses(progress.ID)
	if err != nil {
		return err
	}

	var earned, possible float64
	correct := 0
	for _, r := range latest {
		earned += r.ScoreEarned
		possible += r.ScorePossible
		if r.IsCorrect {
			correct++
		}
	}

	progress.QuestionsAttempted = len(latest)
	progress.QuestionsCorrect = correct
	if possible > 0 {
		progress.QuestionsScore = earned / possible * 100
	} else {
		progress.QuestionsScore = 0
	}
	return s.ProgressRepo.Save(progress)
}

// GetResponses 该学员在课件内的全部答题记录
func (s *QuestionService) GetResponses(childID, contentLessonID uint) ([]model.LessonQuestionResponse, error) {
	progress, err := s.ProgressRepo.Find(childID, contentLessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProgressNotFound
		}
		return nil, err
	}
	return s.QuestionRepo.ListResponsesByProgress(progress.ID)
}

// GetSlideResponses 单页幻灯片的答题记录
func (s *QuestionService) GetSlideResponses(childID, contentLessonID, slideID uint) ([]model.LessonQuestionResponse, error) {
	progress, err := s.ProgressRepo.Find(childID, contentLessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProgressNotFound
		}
		return nil, err
	}
	return s.QuestionRepo.ListResponsesBySlide(progress.ID, slideID)
}
