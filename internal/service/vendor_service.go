package service

import (
	"context"
	"errors"
	"rfp-ai-go/internal/model"
	"rfp-ai-go/internal/repository"
)

// VendorService 接口定义了供应商目录的业务操作。
type VendorService interface {
	AddVendor(ctx context.Context, name, email, company string) (*model.Vendor, error)
	ListVendors(ctx context.Context) ([]model.Vendor, error)
}

// vendorService 是 VendorService 接口的实现。
type vendorService struct {
	vendorRepo repository.VendorRepository
}

// NewVendorService 创建一个新的 VendorService 实例。
func NewVendorService(vendorRepo repository.VendorRepository) VendorService {
	return &vendorService{vendorRepo: vendorRepo}
}

// AddVendor 在供应商目录中新增一条联系人记录。
func (s *vendorService) AddVendor(ctx context.Context, name, email, company string) (*model.Vendor, error) {
	if name == "" || email == "" {
		return nil, errors.New("vendor name and email are required")
	}

	vendor := &model.Vendor{
		Name:    name,
		Email:   email,
		Company: company,
	}
	if err := s.vendorRepo.Create(vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// ListVendors 返回目录中的所有供应商。
func (s *vendorService) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	return s.vendorRepo.FindAll()
}
