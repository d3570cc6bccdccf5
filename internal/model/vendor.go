// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// Vendor 定义了 vendor 表的 ORM 模型。
// 供应商是一条联系人记录，创建后不再变更。
type Vendor struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null;index" json:"email"`
	Company   string    `gorm:"type:varchar(255)" json:"company"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Vendor) TableName() string {
	return "vendor"
}
