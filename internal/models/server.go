package models

import (
	"time"

	"gorm.io/gorm"
)

// Server 物理服务器
type Server struct {
	ProductBase
	Domain      string  `gorm:"column:domain;size:64" json:"domain"`
	PowerStatus *bool   `gorm:"column:power_status;default:true" json:"power_status"`
	SN          *string `gorm:"column:sn;size:32;uniqueIndex" json:"sn"`
	CPUModel    string  `gorm:"column:cpu_model;size:32" json:"cpu_model"`
	CPUCount    int     `gorm:"column:cpu_count" json:"cpu_count"`
	MemTotal    int     `gorm:"column:mem_total" json:"mem_total"`
	RaidModel   string  `gorm:"column:raid_model;size:32" json:"raid_model"`
	System      string  `gorm:"column:system;size:16" json:"system"`
	RackLayer   string  `gorm:"column:rack_layer;size:8" json:"rack_layer"`
	Role        string  `gorm:"column:role;size:10" json:"role"`

	// 带外管理网络
	IPMIIP      string `gorm:"column:ipmi_ip;size:64" json:"ipmi_ip"`
	IPMINetmask string `gorm:"column:ipmi_netmask;size:64" json:"ipmi_netmask"`
	IPMIGateway string `gorm:"column:ipmi_gateway;size:64" json:"ipmi_gateway"`

	// 管理网络
	MgmIP      string `gorm:"column:mgm_ip;size:64" json:"mgm_ip"`
	MgmMac     string `gorm:"column:mgm_mac;size:64" json:"mgm_mac"`
	MgmNetmask string `gorm:"column:mgm_netmask;size:64" json:"mgm_netmask"`
	MgmGateway string `gorm:"column:mgm_gateway;size:64" json:"mgm_gateway"`

	RaidConf   JSONDict    `gorm:"column:raid_conf;type:text" json:"raid_conf"`
	LaunchedAt *time.Time  `gorm:"column:launched_at" json:"launched_at"`
	RackUUID   *string     `gorm:"column:rack_uuid;size:36;index" json:"rack_uuid"`
	DCUUID     *string     `gorm:"column:dc_uuid;size:36;index" json:"dc_uuid"`
	BuildState BuildState  `gorm:"column:build_state;size:16" json:"build_state" validate:"omitempty,oneof=building unbuild absent"`
	State      ServerState `gorm:"column:state;size:16" json:"state" validate:"omitempty,oneof=null shelving shelved building builded checking checked deploying deployed testing product"`

	Rack       *Rack        `gorm:"foreignKey:RackUUID;references:UUID" json:"rack,omitempty" validate:"-"`
	DataCenter *DataCenter  `gorm:"foreignKey:DCUUID;references:UUID" json:"datacenter,omitempty" validate:"-"`
	Roles      []Role       `gorm:"many2many:role_server_relation;foreignKey:UUID;joinForeignKey:ServerUUID;references:UUID;joinReferences:RoleUUID" json:"roles,omitempty" validate:"-"`
	Disks      []Disk       `gorm:"foreignKey:ServerUUID;references:UUID" json:"disks,omitempty" validate:"-"`
	Ports      []ServerPort `gorm:"foreignKey:ServerUUID;references:UUID" json:"ports,omitempty" validate:"-"`
}

func (Server) TableName() string {
	return "servers"
}

func (s *Server) BeforeSave(tx *gorm.DB) error {
	return Validate(s)
}

func (s *Server) SubResourceAssociations() map[string]string {
	return map[string]string{"ports": "Ports", "disks": "Disks"}
}

func (s *Server) SubResources() map[string]interface{} {
	return map[string]interface{}{"ports": s.Ports, "disks": s.Disks}
}

func (s *Server) JSONColumns() map[string]*JSONDict {
	return map[string]*JSONDict{"raid_conf": &s.RaidConf}
}

// Switch 交换机
type Switch struct {
	ProductBase
	// 覆盖基础字段 name：交换机名称全局唯一
	Name        string     `gorm:"column:name;size:64;uniqueIndex" json:"name" validate:"required,max=64"`
	PowerStatus *bool      `gorm:"column:power_status;default:true" json:"power_status"`
	SN          *string    `gorm:"column:sn;size:32;uniqueIndex" json:"sn"`
	RackLayer   string     `gorm:"column:rack_layer;size:8" json:"rack_layer"`
	Role        string     `gorm:"column:role;size:10" json:"role"`
	MgmIP       string     `gorm:"column:mgm_ip;size:64" json:"mgm_ip"`
	MgmMac      string     `gorm:"column:mgm_mac;size:64" json:"mgm_mac"`
	LaunchedAt  *time.Time `gorm:"column:launched_at" json:"launched_at"`
	RackUUID    *string    `gorm:"column:rack_uuid;size:36;index" json:"rack_uuid"`
	DCUUID      *string    `gorm:"column:dc_uuid;size:36;index" json:"dc_uuid"`

	Rack       *Rack        `gorm:"foreignKey:RackUUID;references:UUID" json:"rack,omitempty" validate:"-"`
	DataCenter *DataCenter  `gorm:"foreignKey:DCUUID;references:UUID" json:"datacenter,omitempty" validate:"-"`
	Ports      []SwitchPort `gorm:"foreignKey:SwitchUUID;references:UUID" json:"ports,omitempty" validate:"-"`
}

func (Switch) TableName() string {
	return "switches"
}

func (s *Switch) BeforeSave(tx *gorm.DB) error {
	return Validate(s)
}

func (s *Switch) SubResourceAssociations() map[string]string {
	return map[string]string{"ports": "Ports"}
}

func (s *Switch) SubResources() map[string]interface{} {
	return map[string]interface{}{"ports": s.Ports}
}

// Disk 磁盘
type Disk struct {
	ProductBase
	ServerUUID     *string  `gorm:"column:server_uuid;size:36;index" json:"server_uuid"`
	WWN            *string  `gorm:"column:wwn;size:64;uniqueIndex" json:"wwn"`
	DiskType       DiskType `gorm:"column:disk_type;size:8" json:"disk_type" validate:"omitempty,oneof=SSD HDD"`
	TotalGB        int      `gorm:"column:total_gb" json:"total_gb"`
	SupportDiscard string   `gorm:"column:support_discard;size:8" json:"support_discard"`

	Server *Server `gorm:"foreignKey:ServerUUID;references:UUID" json:"server,omitempty" validate:"-"`
}

func (Disk) TableName() string {
	return "disks"
}

func (d *Disk) BeforeSave(tx *gorm.DB) error {
	return Validate(d)
}
