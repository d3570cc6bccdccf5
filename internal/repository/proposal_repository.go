package repository

import (
	"rfp-ai-go/internal/model"

	"gorm.io/gorm"
)

// ProposalRepository 接口定义了提案数据的持久化操作。
type ProposalRepository interface {
	Create(proposal *model.Proposal) error
	FindAll() ([]model.Proposal, error)
	FindByRfpID(rfpID string) ([]model.Proposal, error)
}

// proposalRepository 是 ProposalRepository 接口的 GORM 实现。
type proposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository 创建一个新的 ProposalRepository 实例。
func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &proposalRepository{db: db}
}

// Create 在数据库中创建一个新的提案记录。
func (r *proposalRepository) Create(proposal *model.Proposal) error {
	return r.db.Create(proposal).Error
}

// FindAll 检索所有提案，并联带供应商与 RFP 信息。
func (r *proposalRepository) FindAll() ([]model.Proposal, error) {
	var proposals []model.Proposal
	err := r.db.Preload("Vendor").Preload("Rfp").Find(&proposals).Error
	return proposals, err
}

// FindByRfpID 检索某个 RFP 下的所有提案，并联带供应商信息。
func (r *proposalRepository) FindByRfpID(rfpID string) ([]model.Proposal, error) {
	var proposals []model.Proposal
	err := r.db.Preload("Vendor").Where("rfp_id = ?", rfpID).Find(&proposals).Error
	return proposals, err
}
