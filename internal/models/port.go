package models

import "gorm.io/gorm"

// ServerPort 服务器网口，与交换机端口一对一对接
type ServerPort struct {
	ProductBase
	ServerUUID     string  `gorm:"column:server_uuid;size:36;not null;index" json:"server_uuid" validate:"required"`
	SwitchPortUUID *string `gorm:"column:switch_port_uuid;size:36;uniqueIndex" json:"switch_port_uuid"`
	MacAddr        *string `gorm:"column:mac_addr;size:64;uniqueIndex" json:"mac_addr"`
	IPAddr         string  `gorm:"column:ip_addr;size:64" json:"ip_addr"`
	Netmask        string  `gorm:"column:netmask;size:64" json:"netmask"`
	Vlan           string  `gorm:"column:vlan;size:64" json:"vlan"`
	VlanType       string  `gorm:"column:vlan_type;size:64" json:"vlan_type"`
	Speed          int     `gorm:"column:speed" json:"speed"`

	SwitchPort *SwitchPort `gorm:"foreignKey:SwitchPortUUID;references:UUID" json:"switch_port,omitempty" validate:"-"`
	Server     *Server     `gorm:"foreignKey:ServerUUID;references:UUID" json:"server,omitempty" validate:"-"`
}

func (ServerPort) TableName() string {
	return "server_ports"
}

func (p *ServerPort) BeforeSave(tx *gorm.DB) error {
	return Validate(p)
}

func (p *ServerPort) SubResourceAssociations() map[string]string {
	return map[string]string{"switch_port": "SwitchPort"}
}

func (p *ServerPort) SubResources() map[string]interface{} {
	return map[string]interface{}{"switch_port": p.SwitchPort}
}

// SwitchPort 交换机端口
type SwitchPort struct {
	ProductBase
	SwitchUUID string  `gorm:"column:switch_uuid;size:36;not null;index" json:"switch_uuid" validate:"required"`
	MacAddr    *string `gorm:"column:mac_addr;size:64;uniqueIndex" json:"mac_addr"`
	IPAddr     string  `gorm:"column:ip_addr;size:64" json:"ip_addr"`
	Netmask    string  `gorm:"column:netmask;size:64" json:"netmask"`
	Vlan       string  `gorm:"column:vlan;size:64" json:"vlan"`
	VlanType   string  `gorm:"column:vlan_type;size:64" json:"vlan_type"`
	Speed      int     `gorm:"column:speed" json:"speed"`

	ServerPort *ServerPort `gorm:"foreignKey:SwitchPortUUID;references:UUID" json:"server_port,omitempty" validate:"-"`
	Switch     *Switch     `gorm:"foreignKey:SwitchUUID;references:UUID" json:"switch,omitempty" validate:"-"`
}

func (SwitchPort) TableName() string {
	return "switch_ports"
}

func (p *SwitchPort) BeforeSave(tx *gorm.DB) error {
	return Validate(p)
}

func (p *SwitchPort) SubResourceAssociations() map[string]string {
	return map[string]string{"server_port": "ServerPort"}
}

func (p *SwitchPort) SubResources() map[string]interface{} {
	return map[string]interface{}{"server_port": p.ServerPort}
}
