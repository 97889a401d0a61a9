package repository

import (
	"tutorhub_backend/internal/model"

	"gorm.io/gorm"
)

type AccessRepository struct {
	DB *gorm.DB
}

func NewAccessRepository(db *gorm.DB) *AccessRepository {
	return &AccessRepository{DB: db}
}

func (r *AccessRepository) Create(grant *model.AccessGrant) error {
	return r.DB.Create(grant).Error
}

func (r *AccessRepository) FindByID(id uint) (*model.AccessGrant, error) {
	var grant model.AccessGrant
	err := r.DB.First(&grant, id).Error
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// FindValidGrants 查询所有生效授权（access=true 且已支付）。
// 课次匹配涉及 JSON 列表字段，统一在应用层完成，不依赖数据库的 JSON 函数。
func (r *AccessRepository) FindValidGrants() ([]model.AccessGrant, error) {
	var grants []model.AccessGrant
	err := r.DB.Where("access = ? AND payment_status = ?", true, model.PaymentPaid).
		Find(&grants).Error
	return grants, err
}

func (r *AccessRepository) FindValidGrantsByChild(childID uint) ([]model.AccessGrant, error) {
	var grants []model.AccessGrant
	err := r.DB.Where("child_id = ? AND access = ? AND payment_status = ?", childID, true, model.PaymentPaid).
		Find(&grants).Error
	return grants, err
}

func (r *AccessRepository) ListByChild(childID uint) ([]model.AccessGrant, error) {
	var grants []model.AccessGrant
	err := r.DB.Where("child_id = ?", childID).
		Order("created_at DESC").
		Find(&grants).Error
	return grants, err
}

func (r *AccessRepository) List(page, pageSize int) ([]model.AccessGrant, int64, error) {
	var grants []model.AccessGrant
	var total int64

	if err := r.DB.Model(&model.AccessGrant{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.DB.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&grants).Error
	return grants, total, err
}

func (r *AccessRepository) Save(grant *model.AccessGrant) error {
	return r.DB.Save(grant).Error
}

func (r *AccessRepository) Delete(id uint) error {
	return r.DB.Delete(&model.AccessGrant{}, id).Error
}
