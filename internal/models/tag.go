package models

import "gorm.io/gorm"

// Tag 标签模型（通用设计，支持任意资源类型）
// resource_type + resource_uuid 只是松散引用，没有外键约束，被引用资源删除后标签可能悬空
type Tag struct {
	VenusBase
	Name         string `gorm:"column:name;size:32" json:"name"`
	Type         string `gorm:"column:type;size:32" json:"type"`
	ResourceType string `gorm:"column:resource_type;size:32;index:idx_tags_resource" json:"resource_type"` // 表名，如 servers
	ResourceUUID string `gorm:"column:resource_uuid;size:36;index:idx_tags_resource" json:"resource_uuid"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}

func (t *Tag) BeforeSave(tx *gorm.DB) error {
	return Validate(t)
}
