package service

import (
	"errors"
	"time"

	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/repository"
	"tutorhub_backend/internal/util"
	"tutorhub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressService 自学课件的学习进度。
// 进度行按 (学员, 课件) 唯一，开始学习幂等；
// 完成百分比只从浏览集合推导，不接受客户端直写。
type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	ContentRepo  *repository.ContentLessonRepository
	UploadRepo   *repository.UploadRepository
	Roster       *RosterService
}

func NewProgressService(progressRepo *repository.ProgressRepository, contentRepo *repository.ContentLessonRepository,
	uploadRepo *repository.UploadRepository, roster *RosterService) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		ContentRepo:  contentRepo,
		UploadRepo:   uploadRepo,
		Roster:       roster,
	}
}

// Start 开始（或继续）学习一个课件。重复调用返回已有进度，不重置任何字段。
func (s *ProgressService) Start(childID, contentLessonID uint) (*model.LessonProgress, bool, error) {
	lesson, err := s.ContentRepo.FindByID(contentLessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, util.ErrLessonNotFound
		}
		return nil, false, err
	}

	ok, err := s.Roster.HasContentLessonAccess(childID, contentLessonID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, util.ErrNoLessonAccess
	}

	now := time.Now()
	defaults := &model.LessonProgress{
		Status:          model.ProgressInProgress,
		SlidesViewed:    model.IDList{},
		UploadsRequired: lesson.UploadsRequired,
		StartedAt:       &now,
		LastAccessedAt:  &now,
	}
	progress, created, err := s.ProgressRepo.FirstOrCreate(childID, contentLessonID, defaults)
	if err != nil {
		return nil, false, err
	}
	if created {
		logger.Log.Info("开始学习课件", zap.Uint("childID", childID), zap.Uint("lessonID", contentLessonID))
	}
	return progress, created, nil
}

type SlideViewInput struct {
	SlideID          uint `json:"slideId" binding:"required"`
	TimeSpentSeconds int  `json:"timeSpentSeconds"`
}

// RecordSlideView 记录一次幻灯片浏览。
// 浏览集合按集合语义去重，重复浏览不抬高百分比；
// 同时维护该页的交互行（首次/最近浏览时间、次数、停留时长）。
func (s *ProgressService) RecordSlideView(childID, contentLessonID uint, input SlideViewInput) (*model.LessonProgress, error) {
	progress, err := s.findProgress(childID, contentLessonID)
	if err != nil {
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

	total, err := s.ContentRepo.CountSlides(contentLessonID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	progress.MarkSlideViewed(input.SlideID, int(total), now)
	progress.LastAccessedAt = &now
	if input.TimeSpentSeconds > 0 {
		progress.TimeSpentSeconds += input.TimeSpentSeconds
	}
	if err := s.ProgressRepo.Save(progress); err != nil {
		return nil, err
	}

	if err := s.touchInteraction(childID, input.SlideID, progress.ID, input.TimeSpentSeconds, now); err != nil {
		logger.Log.Warn("更新幻灯片交互失败", zap.Uint("slideID", input.SlideID), zap.Error(err))
	}
	return progress, nil
}

func (s *ProgressService) touchInteraction(childID, slideID, progressID uint, timeSpent int, now time.Time) error {
	inter, err := s.ProgressRepo.FindInteraction(childID, slideID, progressID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		inter = &model.SlideInteraction{
			ChildID:           childID,
			SlideID:           slideID,
			LessonProgressID:  progressID,
			InteractionsCount: 1,
			TimeSpentSeconds:  timeSpent,
			FirstViewedAt:     &now,
			LastViewedAt:      &now,
		}
		return s.ProgressRepo.CreateInteraction(inter)
	}
	if err != nil {
		return err
	}
	inter.InteractionsCount++
	inter.TimeSpentSeconds += timeSpent
	inter.LastViewedAt = &now
	return s.ProgressRepo.SaveInteraction(inter)
}

type InteractionInput struct {
	SlideID uint                   `json:"slideId" binding:"required"`
	Type    string                 `json:"type" binding:"required"`
	Data    map[string]interface{} `json:"data"`
}

// RecordInteraction 记录求助/提示/朗读/标记疑难等交互。
// flag_difficult 置独立布尔位，其余类型追加到帮助日志。
func (s *ProgressService) RecordInteraction(childID, contentLessonID uint, input InteractionInput) (*model.SlideInteraction, error) {
	progress, err := s.findProgress(childID, contentLessonID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inter, err := s.ProgressRepo.FindInteraction(childID, input.SlideID, progress.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		inter = &model.SlideInteraction{
			ChildID:          childID,
			SlideID:          input.SlideID,
			LessonProgressID: progress.ID,
			FirstViewedAt:    &now,
		}
		if err := s.ProgressRepo.CreateInteraction(inter); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	switch input.Type {
	case model.InteractionFlagDifficult:
		inter.FlaggedDifficult = true
	case model.InteractionHelpRequest, model.InteractionHintUsed, model.InteractionTTSUsed:
		inter.AddHelpRequest(input.Type, input.Data, now)
	default:
		return nil, errors.New("未知的交互类型")
	}
	inter.InteractionsCount++
	inter.LastViewedAt = &now

	if err := s.ProgressRepo.SaveInteraction(inter); err != nil {
		return nil, err
	}
	return inter, nil
}

// SubmitConfidence 学员对某页的自信度评分，1-5
func (s *ProgressService) SubmitConfidence(childID, contentLessonID, slideID uint, rating int) (*model.SlideInteraction, error) {
	if rating < 1 || rating > 5 {
		return nil, util.ErrInvalidRating
	}
	progress, err := s.findProgress(childID, contentLessonID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inter, err := s.ProgressRepo.FindInteraction(childID, slideID, progress.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		inter = &model.SlideInteraction{
			ChildID:          childID,
			SlideID:          slideID,
			LessonProgressID: progress.ID,
			FirstViewedAt:    &now,
		}
		if err := s.ProgressRepo.CreateInteraction(inter); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	inter.ConfidenceRating = &rating
	inter.LastViewedAt = &now
	if err := s.ProgressRepo.SaveInteraction(inter); err != nil {
		return nil, err
	}
	return inter, nil
}

type HeartbeatInput struct {
	TimeSpentSeconds int   `json:"timeSpentSeconds"`
	LastSlideID      *uint `json:"lastSlideId"`
}

// UpdateProgress 学习心跳：累计停留时长并记录续播位置。
// 时长用原子自增，只增不减。
func (s *ProgressService) UpdateProgress(childID, contentLessonID uint, input HeartbeatInput) (*model.LessonProgress, error) {
	progress, err := s.findProgress(childID, contentLessonID)
	if err != nil {
		return nil, err
	}
	if input.TimeSpentSeconds < 0 {
		return nil, errors.New("停留时长不能为负")
	}

	if input.TimeSpentSeconds > 0 {
		if err := s.ProgressRepo.AddTimeSpent(progress.ID, input.TimeSpentSeconds); err != nil {
			return nil, err
		}
		// 自增落库后重取，避免整行保存把计数写回旧值
		if progress, err = s.findProgress(childID, contentLessonID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	progress.LastAccessedAt = &now
	if input.LastSlideID != nil {
		slide, err := s.ContentRepo.FindSlideByID(*input.LastSlideID)
		if err != nil || slide.ContentLessonID != contentLessonID {
			return nil, util.ErrSlideNotFound
		}
		progress.LastSlideID = input.LastSlideID
	}
	if err := s.ProgressRepo.Save(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// CheckCompletion 按课件规则判定完成。首次达成时落 completed_at，
// 之后重复调用不再改动时间戳。
func (s *ProgressService) CheckCompletion(childID, contentLessonID uint) (*model.LessonProgress, bool, error) {
	progress, err := s.findProgress(childID, contentLessonID)
	if err != nil {
		return nil, false, err
	}

	lesson, err := s.ContentRepo.FindByID(contentLessonID)
	if err != nil {
		return nil, false, err
	}

	if progress.CompletedAt != nil {
		return progress, true, nil
	}

	if !progress.MeetsCompletion(lesson.CompletionRules) {
		return progress, false, nil
	}

	now := time.Now()
	progress.Status = model.ProgressCompleted
	progress.CompletedAt = &now
	if err := s.ProgressRepo.Save(progress); err != nil {
		return nil, false, err
	}
	logger.Log.Info("课件完成", zap.Uint("childID", childID), zap.Uint("lessonID", contentLessonID))
	return progress, true, nil
}

// ProgressSummary 学习概览：进度、逐页交互、疑难页数量、已交附件数
type ProgressSummary struct {
	Progress     *model.LessonProgress    `json:"progress"`
	Interactions []model.SlideInteraction `json:"interactions"`
	FlaggedCount int64                    `json:"flaggedCount"`
	UploadsCount int64                    `json:"uploadsCount"`
}

func (s *ProgressService) Summary(childID, contentLessonID uint) (*ProgressSummary, error) {
	progress, err := s.findProgress(childID, contentLessonID)
	if err != nil {
		return nil, err
	}

	interactions, err := s.ProgressRepo.ListInteractions(progress.ID)
	if err != nil {
		return nil, err
	}
	flagged, err := s.ProgressRepo.CountFlaggedDifficult(progress.ID)
	if err != nil {
		return nil, err
	}
	uploads, err := s.UploadRepo.CountByChildAndLesson(childID, contentLessonID)
	if err != nil {
		return nil, err
	}

	return &ProgressSummary{
		Progress:     progress,
		Interactions: interactions,
		FlaggedCount: flagged,
		UploadsCount: uploads,
	}, nil
}

func (s *ProgressService) ListByChild(childID uint) ([]model.LessonProgress, error) {
	return s.ProgressRepo.ListByChild(childID)
}

func (s *ProgressService) findProgress(childID, contentLessonID uint) (*model.LessonProgress, error) {
	progress, err := s.ProgressRepo.Find(childID, contentLessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProgressNotFound
		}
		return nil, err
	}
	return progress, nil
}
