package repository

import (
	"tutorhub_backend/internal/model"

	"gorm.io/gorm"
)

type ChildRepository struct {
	DB *gorm.DB
}

func NewChildRepository(db *gorm.DB) *ChildRepository {
	return &ChildRepository{DB: db}
}

func (r *ChildRepository) Create(child *model.Child) error {
	return r.DB.Create(child).Error
}

func (r *ChildRepository) FindByID(id uint) (*model.Child, error) {
	var child model.Child
	err := r.DB.First(&child, id).Error
	if err != nil {
		return nil, err
	}
	return &child, nil
}

func (r *ChildRepository) FindByGuardian(guardianID uint) ([]model.Child, error) {
	var children []model.Child
	err := r.DB.Where("guardian_id = ?", guardianID).
		Order("created_at ASC").
		Find(&children).Error
	return children, err
}

func (r *ChildRepository) Save(child *model.Child) error {
	return r.DB.Save(child).Error
}

func (r *ChildRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Child{}, id).Error
}
