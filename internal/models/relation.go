package models

// 多对多关联表，只保存两端主键；联合主键保证同一对关系只出现一次

// UserRoleRelation 用户-角色
type UserRoleRelation struct {
	UserUUID string `gorm:"column:user_uuid;primaryKey;size:36"`
	RoleUUID string `gorm:"column:role_uuid;primaryKey;size:36"`
}

func (UserRoleRelation) TableName() string {
	return "user_role_relation"
}

// RoleServerRelation 角色-服务器
type RoleServerRelation struct {
	RoleUUID   string `gorm:"column:role_uuid;primaryKey;size:36"`
	ServerUUID string `gorm:"column:server_uuid;primaryKey;size:36"`
}

func (RoleServerRelation) TableName() string {
	return "role_server_relation"
}

// RoleCommandRelation 角色-命令别名
type RoleCommandRelation struct {
	RoleUUID    string `gorm:"column:role_uuid;primaryKey;size:36"`
	CommandUUID string `gorm:"column:command_uuid;primaryKey;size:36"`
}

func (RoleCommandRelation) TableName() string {
	return "role_command_relation"
}
