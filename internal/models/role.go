package models

import (
	"strings"

	"gorm.io/gorm"
)

// Role 角色模型，名称写入时统一转为大写
type Role struct {
	VenusBase
	Name     string `gorm:"column:name;size:32;uniqueIndex;not null" json:"name" validate:"required,max=32"`
	Commands string `gorm:"column:commands;type:text" json:"commands"`

	Users          []User         `gorm:"many2many:user_role_relation;foreignKey:UUID;joinForeignKey:RoleUUID;references:UUID;joinReferences:UserUUID" json:"users,omitempty" validate:"-"`
	Servers        []Server       `gorm:"many2many:role_server_relation;foreignKey:UUID;joinForeignKey:RoleUUID;references:UUID;joinReferences:ServerUUID" json:"servers,omitempty" validate:"-"`
	CommandAliases []CommandAlias `gorm:"many2many:role_command_relation;foreignKey:UUID;joinForeignKey:RoleUUID;references:UUID;joinReferences:CommandUUID" json:"command_aliases,omitempty" validate:"-"`
}

func (Role) TableName() string {
	return "roles"
}

// BeforeSave 先规范化名称再校验
func (r *Role) BeforeSave(tx *gorm.DB) error {
	r.Name = strings.ToUpper(r.Name)
	return Validate(r)
}

func (r *Role) SubResourceAssociations() map[string]string {
	return map[string]string{"command_aliases": "CommandAliases"}
}

func (r *Role) SubResources() map[string]interface{} {
	return map[string]interface{}{"command_aliases": r.CommandAliases}
}

// CommandAlias 命令别名，名称写入时统一转为大写
type CommandAlias struct {
	VenusBase
	Name     string `gorm:"column:name;size:32;uniqueIndex;not null" json:"name" validate:"required,max=32"`
	Commands string `gorm:"column:commands;type:text;not null" json:"commands" validate:"required"`

	Roles []Role `gorm:"many2many:role_command_relation;foreignKey:UUID;joinForeignKey:CommandUUID;references:UUID;joinReferences:RoleUUID" json:"roles,omitempty" validate:"-"`
}

func (CommandAlias) TableName() string {
	return "command_aliases"
}

func (c *CommandAlias) BeforeSave(tx *gorm.DB) error {
	c.Name = strings.ToUpper(c.Name)
	return Validate(c)
}
