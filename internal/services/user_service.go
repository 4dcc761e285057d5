package services

import (
	"context"
	"errors"
	"fmt"

	"foxnut/internal/models"
	apperrors "foxnut/pkg/errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrInvalidCredentials 用户名或密码错误、账号被禁用或已删除
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService 用户账号
type UserService struct {
	*InventoryService
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{InventoryService: NewInventoryService(db)}
}

// Create 创建用户，LDAP 用户不保存本地密码
func (s *UserService) Create(ctx context.Context, name, password string, userType models.UserType) (*models.User, error) {
	user := &models.User{Name: name, UserType: userType}
	if userType == "" {
		user.UserType = models.UserTypeNormal
	}
	if user.UserType == models.UserTypeNormal && password != "" {
		if err := user.SetPassword(password); err != nil {
			return nil, fmt.Errorf("密码加密失败: %w", err)
		}
	}

	if err := s.InventoryService.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByName 按用户名查询
func (s *UserService) GetByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		return nil, apperrors.Translate(err)
	}
	return &user, nil
}

// Authenticate 校验本地密码
func (s *UserService) Authenticate(ctx context.Context, name, password string) (*models.User, error) {
	user, err := s.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Deleted || !user.Active() || !user.CheckPassword(password) {
		s.log.WithFields(logrus.Fields{"user": name}).Warn("authentication failed")
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword 修改本地密码
func (s *UserService) ChangePassword(ctx context.Context, uuid, password string) error {
	user := &models.User{}
	if err := s.Get(ctx, user, uuid); err != nil {
		return err
	}
	if user.UserType == models.UserTypeLDAP {
		return fmt.Errorf("%w: ldap user has no local password", apperrors.ErrInvalidField)
	}
	if err := user.SetPassword(password); err != nil {
		return fmt.Errorf("密码加密失败: %w", err)
	}
	return s.Patch(ctx, user, "password")
}

// SetActive 启用或禁用账号
func (s *UserService) SetActive(ctx context.Context, uuid string, active bool) error {
	return updateColumns(ctx, s.db, &models.User{}, uuid, map[string]interface{}{"is_active": active})
}
