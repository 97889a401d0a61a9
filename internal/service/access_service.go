package service

import (
	"context"
	"errors"

	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/repository"
	"tutorhub_backend/internal/util"
	"tutorhub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccessService 授权记录的管理入口。写操作会同步清除相关课次的名单缓存。
type AccessService struct {
	AccessRepo *repository.AccessRepository
	ChildRepo  *repository.ChildRepository
	Roster     *RosterService
}

func NewAccessService(accessRepo *repository.AccessRepository, childRepo *repository.ChildRepository, roster *RosterService) *AccessService {
	return &AccessService{AccessRepo: accessRepo, ChildRepo: childRepo, Roster: roster}
}

func (s *AccessService) CreateGrant(ctx context.Context, grant *model.AccessGrant) error {
	if _, err := s.ChildRepo.FindByID(grant.ChildID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrChildNotFound
		}
		return err
	}
	if err := s.AccessRepo.Create(grant); err != nil {
		return err
	}
	s.Roster.InvalidateGrant(ctx, grant)
	logger.Log.Info("创建授权", zap.Uint("grantID", grant.ID), zap.Uint("childID", grant.ChildID))
	return nil
}

func (s *AccessService) UpdateGrant(ctx context.Context, grant *model.AccessGrant) error {
	old, err := s.AccessRepo.FindByID(grant.ID)
	if err != nil {
		return err
	}
	if err := s.AccessRepo.Save(grant); err != nil {
		return err
	}
	// 新旧覆盖范围都要失效
	s.Roster.InvalidateGrant(ctx, old)
	s.Roster.InvalidateGrant(ctx, grant)
	return nil
}

func (s *AccessService) DeleteGrant(ctx context.Context, id uint) error {
	grant, err := s.AccessRepo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.AccessRepo.Delete(id); err != nil {
		return err
	}
	s.Roster.InvalidateGrant(ctx, grant)
	return nil
}

func (s *AccessService) GetGrant(id uint) (*model.AccessGrant, error) {
	return s.AccessRepo.FindByID(id)
}

func (s *AccessService) ListGrants(page, pageSize int) ([]model.AccessGrant, int64, error) {
	return s.AccessRepo.List(page, pageSize)
}

func (s *AccessService) ListGrantsByChild(childID uint) ([]model.AccessGrant, error) {
	return s.AccessRepo.ListByChild(childID)
}
