package models

import "gorm.io/gorm"

// DataCenter 数据中心
type DataCenter struct {
	VenusBase
	Location string `gorm:"column:location;size:64" json:"location"`

	Racks []Rack `gorm:"foreignKey:DCUUID;references:UUID" json:"racks,omitempty" validate:"-"`
}

func (DataCenter) TableName() string {
	return "datacenters"
}

func (d *DataCenter) BeforeSave(tx *gorm.DB) error {
	return Validate(d)
}

func (d *DataCenter) SubResourceAssociations() map[string]string {
	return map[string]string{"racks": "Racks"}
}

func (d *DataCenter) SubResources() map[string]interface{} {
	return map[string]interface{}{"racks": d.Racks}
}

// Rack 机柜
type Rack struct {
	VenusBase
	DCUUID      string `gorm:"column:dc_uuid;size:36;not null;index" json:"dc_uuid" validate:"required"`
	Height      int    `gorm:"column:height" json:"height"`
	Electricity int    `gorm:"column:electricity" json:"electricity"`
	RackLimit   int    `gorm:"column:rack_limit" json:"rack_limit"`

	DataCenter *DataCenter `gorm:"foreignKey:DCUUID;references:UUID" json:"datacenter,omitempty" validate:"-"`
	Servers    []Server    `gorm:"foreignKey:RackUUID;references:UUID" json:"servers,omitempty" validate:"-"`
	Switches   []Switch    `gorm:"foreignKey:RackUUID;references:UUID" json:"switches,omitempty" validate:"-"`
}

func (Rack) TableName() string {
	return "racks"
}

func (r *Rack) BeforeSave(tx *gorm.DB) error {
	return Validate(r)
}

func (r *Rack) SubResourceAssociations() map[string]string {
	return map[string]string{"servers": "Servers", "switches": "Switches"}
}

func (r *Rack) SubResources() map[string]interface{} {
	return map[string]interface{}{"servers": r.Servers, "switches": r.Switches}
}
