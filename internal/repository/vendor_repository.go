// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"rfp-ai-go/internal/model"

	"gorm.io/gorm"
)

// VendorRepository 接口定义了供应商数据的持久化操作。
type VendorRepository interface {
	Create(vendor *model.Vendor) error
	FindAll() ([]model.Vendor, error)
	FindByID(vendorID uint) (*model.Vendor, error)
	FindByIDs(vendorIDs []uint) ([]model.Vendor, error)
	FindByEmail(email string) (*model.Vendor, error)
}

// vendorRepository 是 VendorRepository 接口的 GORM 实现。
type vendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository 创建一个新的 VendorRepository 实例。
func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

// Create 在数据库中创建一个新的供应商记录。
func (r *vendorRepository) Create(vendor *model.Vendor) error {
	return r.db.Create(vendor).Error
}

// FindAll 从数据库中检索所有供应商记录。
func (r *vendorRepository) FindAll() ([]model.Vendor, error) {
	var vendors []model.Vendor
	err := r.db.Find(&vendors).Error
	return vendors, err
}

// FindByID 根据 ID 从数据库中查找一个供应商。
func (r *vendorRepository) FindByID(vendorID uint) (*model.Vendor, error) {
	var vendor model.Vendor
	err := r.db.First(&vendor, vendorID).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindByIDs 根据一组 ID 查找供应商，保持调用方给出的顺序。
func (r *vendorRepository) FindByIDs(vendorIDs []uint) ([]model.Vendor, error) {
	var vendors []model.Vendor
	if err := r.db.Where("id IN ?", vendorIDs).Find(&vendors).Error; err != nil {
		return nil, err
	}

	// 发送顺序约定为调用方提供的顺序，而非数据库返回顺序
	byID := make(map[uint]model.Vendor, len(vendors))
	for _, v := range vendors {
		byID[v.ID] = v
	}
	ordered := make([]model.Vendor, 0, len(vendors))
	for _, id := range vendorIDs {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}
	return ordered, nil
}

// FindByEmail 根据邮箱地址查找一个供应商。
func (r *vendorRepository) FindByEmail(email string) (*model.Vendor, error) {
	var vendor model.Vendor
	err := r.db.Where("email = ?", email).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}
