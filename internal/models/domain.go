package models

import (
	"time"

	"gorm.io/gorm"
)

// Domain 业务域，保存装机所需的 put / 端口 / RAID 配置
type Domain struct {
	VenusBase
	DeployedAt        *time.Time  `gorm:"column:deployed_at" json:"deployed_at"`
	DeploymentManager string      `gorm:"column:deployment_manager;size:50" json:"deployment_manager"`
	PublishedAt       *time.Time  `gorm:"column:published_at" json:"published_at"`
	State             DomainState `gorm:"column:state;size:16" json:"state" validate:"omitempty,oneof=null deploying testing product"`
	Put               JSONDict    `gorm:"column:put;type:text" json:"put"`
	PortConf          JSONDict    `gorm:"column:port_conf;type:text" json:"port_conf"`
	RaidConf          JSONDict    `gorm:"column:raid_conf;type:text" json:"raid_conf"`

	Networks []Network `gorm:"foreignKey:DomainUUID;references:UUID" json:"networks,omitempty" validate:"-"`
}

func (Domain) TableName() string {
	return "domains"
}

func (d *Domain) BeforeSave(tx *gorm.DB) error {
	return Validate(d)
}

func (d *Domain) SubResourceAssociations() map[string]string {
	return map[string]string{"networks": "Networks"}
}

func (d *Domain) SubResources() map[string]interface{} {
	return map[string]interface{}{"networks": d.Networks}
}

func (d *Domain) JSONColumns() map[string]*JSONDict {
	return map[string]*JSONDict{
		"put":       &d.Put,
		"port_conf": &d.PortConf,
		"raid_conf": &d.RaidConf,
	}
}

// Network 业务域下的网段
type Network struct {
	VenusBase
	DomainUUID *string `gorm:"column:domain_uuid;size:36;index" json:"domain_uuid"`
	Type       string  `gorm:"column:type;size:32" json:"type"`
	IPRange    string  `gorm:"column:ip_range;size:32" json:"ip_range"`
	Gateway    string  `gorm:"column:gateway;size:32" json:"gateway"`
	Netmask    string  `gorm:"column:netmask;size:32" json:"netmask"`

	Domain *Domain `gorm:"foreignKey:DomainUUID;references:UUID" json:"domain,omitempty" validate:"-"`
}

func (Network) TableName() string {
	return "networks"
}

func (n *Network) BeforeSave(tx *gorm.DB) error {
	return Validate(n)
}
