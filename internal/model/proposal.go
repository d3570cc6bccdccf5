package model

import "time"

// Proposal 定义了 proposal 表的 ORM 模型。
// 一条提案链接到一个 RFP 和一个供应商，创建后不再变更。
type Proposal struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RfpID        string    `gorm:"type:char(24);not null;index" json:"rfpId"`
	VendorID     uint      `gorm:"not null;index" json:"vendorId"`
	RawEmailText string    `gorm:"type:text" json:"rawEmailText"`
	Extracted    JSONMap   `gorm:"type:json" json:"extracted"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Rfp    *Rfp    `gorm:"foreignKey:RfpID" json:"rfp,omitempty"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Proposal) TableName() string {
	return "proposal"
}

// Recommendation 是比较提案后得到的推荐结果，不落库，每次请求重新计算。
type Recommendation struct {
	RecommendedVendor string  `json:"recommendedVendor"`
	Reason            string  `json:"reason"`
	Score             float64 `json:"score"`
}

// EsProposalDoc 是写入 Elasticsearch 的提案文档结构。
type EsProposalDoc struct {
	ProposalID   uint    `json:"proposal_id"`
	RfpID        string  `json:"rfp_id"`
	VendorID     uint    `json:"vendor_id"`
	VendorName   string  `json:"vendor_name"`
	RawEmailText string  `json:"raw_email_text"`
	Extracted    JSONMap `json:"extracted"`
}
