package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VenusBase 所有资源共有的字段
// deleted_at 不使用 gorm.DeletedAt，查询不做隐式过滤，由调用方决定是否排除已删除记录
type VenusBase struct {
	UUID      string     `gorm:"column:uuid;primaryKey;size:36" json:"uuid"`
	Name      string     `gorm:"column:name;size:64" json:"name"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"column:deleted_at" json:"deleted_at"`
	Deleted   bool       `gorm:"column:deleted;not null;default:false" json:"deleted"`
	Comment   string     `gorm:"column:comment;type:text;default:''" json:"comment"`
}

// GetUUID 返回资源主键
func (b *VenusBase) GetUUID() string {
	return b.UUID
}

// IsDeleted 是否已软删除
func (b *VenusBase) IsDeleted() bool {
	return b.Deleted
}

// SetDeleted 同步软删除状态，at 为 nil 表示恢复
func (b *VenusBase) SetDeleted(at *time.Time) {
	b.DeletedAt = at
	b.Deleted = at != nil
}

// BeforeCreate 未指定 uuid 时自动生成
func (b *VenusBase) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == "" {
		b.UUID = uuid.NewString()
	}
	return nil
}

// ProductBase 硬件设备共有的厂商、型号、状态字段
type ProductBase struct {
	VenusBase
	Vendor string        `gorm:"column:vendor;size:16" json:"vendor"`
	Model  string        `gorm:"column:model;size:32" json:"model"`
	Status ProductStatus `gorm:"column:status;size:16;default:active" json:"status" validate:"omitempty,oneof=active error"`
}

// BeforeCreate 生成 uuid 并填充默认状态
func (p *ProductBase) BeforeCreate(tx *gorm.DB) error {
	if p.Status == "" {
		p.Status = ProductStatusActive
	}
	return p.VenusBase.BeforeCreate(tx)
}
