package service

import (
	"fmt"
	"strconv"

	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/repository"
	"tutorhub_backend/pkg/logger"

	"go.uber.org/zap"
)

type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
	ChildRepo        *repository.ChildRepository
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, childRepo *repository.ChildRepository) *NotificationService {
	return &NotificationService{NotificationRepo: notificationRepo, ChildRepo: childRepo}
}

// NotifyGraded 答题判分后通知监护人。异步调用，失败只记日志不影响判分结果。
func (s *NotificationService) NotifyGraded(childID uint, question *model.Question, correct bool, score float64) {
	child, err := s.ChildRepo.FindByID(childID)
	if err != nil {
		logger.Log.Warn("判分通知失败：学员不存在", zap.Uint("childID", childID), zap.Error(err))
		return
	}

	verdict := "回答错误"
	if correct {
		verdict = "回答正确"
	}
	n := &model.Notification{
		UserID: child.GuardianID,
		Type:   model.NotificationGraded,
		Title:  fmt.Sprintf("%s 完成了一道题目", child.ChildName),
		Body:   fmt.Sprintf("%s，得分 %.1f/%.1f", verdict, score, question.Marks),
		RefID:  strconv.FormatUint(uint64(question.ID), 10),
	}
	if err := s.NotificationRepo.Create(n); err != nil {
		logger.Log.Warn("写入判分通知失败", zap.Uint("guardianID", child.GuardianID), zap.Error(err))
	}
}

func (s *NotificationService) List(userID uint, page, pageSize int) ([]model.Notification, int64, error) {
	return s.NotificationRepo.ListByUser(userID, page, pageSize)
}

func (s *NotificationService) CountUnread(userID uint) (int64, error) {
	return s.NotificationRepo.CountUnread(userID)
}

func (s *NotificationService) MarkRead(userID, id uint) error {
	return s.NotificationRepo.MarkRead(userID, id)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.NotificationRepo.MarkAllRead(userID)
}
