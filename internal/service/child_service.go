package service

import (
	"errors"

	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/repository"
	"tutorhub_backend/internal/util"

	"gorm.io/gorm"
)

type ChildService struct {
	ChildRepo *repository.ChildRepository
}

func NewChildService(childRepo *repository.ChildRepository) *ChildService {
	return &ChildService{ChildRepo: childRepo}
}

// Authorize 校验操作者能否访问该学员：监护人只能访问自己的学员，
// 导师和管理员不受限。返回学员记录避免调用方二次查询。
func (s *ChildService) Authorize(actor *util.Claims, childID uint) (*model.Child, error) {
	child, err := s.ChildRepo.FindByID(childID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChildNotFound
		}
		return nil, err
	}
	if actor.Role == model.Guardian && child.GuardianID != actor.UserID {
		return nil, util.ErrPermissionDenied
	}
	return child, nil
}

func (s *ChildService) Create(actor *util.Claims, child *model.Child) error {
	if actor.Role == model.Guardian {
		child.GuardianID = actor.UserID
	}
	return s.ChildRepo.Create(child)
}

func (s *ChildService) ListMine(actor *util.Claims) ([]model.Child, error) {
	return s.ChildRepo.FindByGuardian(actor.UserID)
}

func (s *ChildService) Update(actor *util.Claims, childID uint, name, yearGroup string) (*model.Child, error) {
	child, err := s.Authorize(actor, childID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		child.ChildName = name
	}
	if yearGroup != "" {
		child.YearGroup = yearGroup
	}
	if err := s.ChildRepo.Save(child); err != nil {
		return nil, err
	}
	return child, nil
}

func (s *ChildService) Delete(actor *util.Claims, childID uint) error {
	if _, err := s.Authorize(actor, childID); err != nil {
		return err
	}
	return s.ChildRepo.Delete(childID)
}
