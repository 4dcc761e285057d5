package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 用户模型
type User struct {
	VenusBase
	Name     string   `gorm:"column:name;size:32;uniqueIndex;not null" json:"name" validate:"required,max=32"`
	UserType UserType `gorm:"column:user_type;size:16;default:normal" json:"user_type" validate:"omitempty,oneof=ldap normal"`
	Password string   `gorm:"column:password;size:100" json:"-"`
	IsActive *bool    `gorm:"column:is_active;default:true" json:"is_active"`

	Roles []Role `gorm:"many2many:user_role_relation;foreignKey:UUID;joinForeignKey:UserUUID;references:UUID;joinReferences:RoleUUID" json:"roles,omitempty" validate:"-"`
}

// TableName 表名
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	return Validate(u)
}

func (u *User) SubResourceAssociations() map[string]string {
	return map[string]string{"roles": "Roles"}
}

func (u *User) SubResources() map[string]interface{} {
	return map[string]interface{}{"roles": u.Roles}
}

// SetPassword 设置密码 - 数据操作方法
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码 - 数据操作方法
// LDAP 用户不在本地保存密码，始终返回 false
func (u *User) CheckPassword(password string) bool {
	if u.UserType == UserTypeLDAP || u.Password == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Active 账号是否启用，未设置时按默认值 true 处理
func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}
