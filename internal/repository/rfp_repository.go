package repository

import (
	"rfp-ai-go/internal/model"

	"gorm.io/gorm"
)

// RfpRepository 接口定义了 RFP 数据的持久化操作。
type RfpRepository interface {
	Create(rfp *model.Rfp) error
	FindAll() ([]model.Rfp, error)
	FindByID(rfpID string) (*model.Rfp, error)
	Update(rfp *model.Rfp) error
}

// rfpRepository 是 RfpRepository 接口的 GORM 实现。
type rfpRepository struct {
	db *gorm.DB
}

// NewRfpRepository 创建一个新的 RfpRepository 实例。
func NewRfpRepository(db *gorm.DB) RfpRepository {
	return &rfpRepository{db: db}
}

// Create 在数据库中创建一个新的 RFP 记录。
func (r *rfpRepository) Create(rfp *model.Rfp) error {
	return r.db.Create(rfp).Error
}

// FindAll 从数据库中检索所有 RFP 记录。
func (r *rfpRepository) FindAll() ([]model.Rfp, error) {
	var rfps []model.Rfp
	err := r.db.Find(&rfps).Error
	return rfps, err
}

// FindByID 根据 ID 从数据库中查找一个 RFP。
func (r *rfpRepository) FindByID(rfpID string) (*model.Rfp, error) {
	var rfp model.Rfp
	err := r.db.Where("id = ?", rfpID).First(&rfp).Error
	if err != nil {
		return nil, err
	}
	return &rfp, nil
}

// Update 更新数据库中一个已存在的 RFP 记录。
func (r *rfpRepository) Update(rfp *model.Rfp) error {
	return r.db.Save(rfp).Error
}
