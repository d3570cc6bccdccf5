package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// RFP 状态机：created --(发送成功后)--> sent，没有更多状态。
const (
	RfpStatusCreated = "created"
	RfpStatusSent    = "sent"
)

// Rfp 定义了 rfp 表的 ORM 模型。
// Structured 字段由补全服务从 RawText 归一化得到。
type Rfp struct {
	ID              string     `gorm:"type:char(24);primaryKey" json:"id"`
	RawText         string     `gorm:"type:text;not null" json:"rawText"`
	Structured      JSONMap    `gorm:"type:json" json:"structured"`
	Status          string     `gorm:"type:varchar(20);not null;default:created" json:"status"`
	SelectedVendors UintSlice  `gorm:"type:json" json:"selectedVendors"`
	SentAt          *time.Time `gorm:"default:null" json:"sentAt"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Rfp) TableName() string {
	return "rfp"
}

// NewRfpID 生成一个 24 位十六进制的 RFP 标识。
// 邮件主题模板 "RFP Request - <id>" 及收件侧的正则匹配依赖这个长度。
func NewRfpID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
