package services

import (
	"context"
	"fmt"
	"strings"

	"foxnut/internal/models"
	apperrors "foxnut/pkg/errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoleService 角色与用户、服务器、命令别名的授权关系
type RoleService struct {
	*InventoryService
}

// NewRoleService 创建角色服务
func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{InventoryService: NewInventoryService(db)}
}

// relation 描述一张多对多关联表
type relation struct {
	table     string
	roleCol   string
	otherCol  string
	otherKind string
	other     models.Resource
}

var (
	userRoleRelation = relation{
		table: "user_role_relation", roleCol: "role_uuid", otherCol: "user_uuid",
		otherKind: "user", other: &models.User{},
	}
	roleServerRelation = relation{
		table: "role_server_relation", roleCol: "role_uuid", otherCol: "server_uuid",
		otherKind: "server", other: &models.Server{},
	}
	roleCommandRelation = relation{
		table: "role_command_relation", roleCol: "role_uuid", otherCol: "command_uuid",
		otherKind: "command alias", other: &models.CommandAlias{},
	}
)

// ========== 基础CRUD方法 ==========

// CreateRole 创建角色，名称统一转为大写
func (s *RoleService) CreateRole(ctx context.Context, name, commands string) (*models.Role, error) {
	role := &models.Role{Name: name, Commands: commands}
	if err := s.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// CreateCommandAlias 创建命令别名
func (s *RoleService) CreateCommandAlias(ctx context.Context, name, commands string) (*models.CommandAlias, error) {
	alias := &models.CommandAlias{Name: name, Commands: commands}
	if err := s.Create(ctx, alias); err != nil {
		return nil, err
	}
	return alias, nil
}

// GetRoleByName 按名称查询角色，名称不区分大小写
func (s *RoleService) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := s.db.WithContext(ctx).Where("name = ?", normalizeName(name)).First(&role).Error
	if err != nil {
		return nil, apperrors.Translate(err)
	}
	return &role, nil
}

// ========== 授权关系 ==========

// GrantUsers 为用户授予角色，已存在的关系忽略
func (s *RoleService) GrantUsers(ctx context.Context, roleUUID string, userUUIDs ...string) error {
	return s.grant(ctx, userRoleRelation, roleUUID, userUUIDs)
}

// RevokeUsers 撤销用户的角色
func (s *RoleService) RevokeUsers(ctx context.Context, roleUUID string, userUUIDs ...string) error {
	return s.revoke(ctx, userRoleRelation, roleUUID, userUUIDs)
}

// GrantServers 授权角色访问服务器
func (s *RoleService) GrantServers(ctx context.Context, roleUUID string, serverUUIDs ...string) error {
	return s.grant(ctx, roleServerRelation, roleUUID, serverUUIDs)
}

// RevokeServers 撤销角色的服务器访问
func (s *RoleService) RevokeServers(ctx context.Context, roleUUID string, serverUUIDs ...string) error {
	return s.revoke(ctx, roleServerRelation, roleUUID, serverUUIDs)
}

// GrantCommandAliases 授权角色执行命令别名
func (s *RoleService) GrantCommandAliases(ctx context.Context, roleUUID string, aliasUUIDs ...string) error {
	return s.grant(ctx, roleCommandRelation, roleUUID, aliasUUIDs)
}

// RevokeCommandAliases 撤销角色的命令别名
func (s *RoleService) RevokeCommandAliases(ctx context.Context, roleUUID string, aliasUUIDs ...string) error {
	return s.revoke(ctx, roleCommandRelation, roleUUID, aliasUUIDs)
}

// RolesOfUser 用户拥有的角色
func (s *RoleService) RolesOfUser(ctx context.Context, userUUID string) ([]models.Role, error) {
	var roles []models.Role
	err := s.db.WithContext(ctx).
		Joins("JOIN user_role_relation ON user_role_relation.role_uuid = roles.uuid").
		Where("user_role_relation.user_uuid = ?", userUUID).
		Order("roles.name").
		Find(&roles).Error
	return roles, apperrors.Translate(err)
}

// UsersOfRole 拥有角色的用户
func (s *RoleService) UsersOfRole(ctx context.Context, roleUUID string) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN user_role_relation ON user_role_relation.user_uuid = users.uuid").
		Where("user_role_relation.role_uuid = ?", roleUUID).
		Order("users.name").
		Find(&users).Error
	return users, apperrors.Translate(err)
}

// ServersOfRole 角色可访问的服务器
func (s *RoleService) ServersOfRole(ctx context.Context, roleUUID string) ([]models.Server, error) {
	var servers []models.Server
	err := s.db.WithContext(ctx).
		Joins("JOIN role_server_relation ON role_server_relation.server_uuid = servers.uuid").
		Where("role_server_relation.role_uuid = ?", roleUUID).
		Order("servers.created_at").
		Find(&servers).Error
	return servers, apperrors.Translate(err)
}

// CommandAliasesOfRole 角色可执行的命令别名
func (s *RoleService) CommandAliasesOfRole(ctx context.Context, roleUUID string) ([]models.CommandAlias, error) {
	var aliases []models.CommandAlias
	err := s.db.WithContext(ctx).
		Joins("JOIN role_command_relation ON role_command_relation.command_uuid = command_aliases.uuid").
		Where("role_command_relation.role_uuid = ?", roleUUID).
		Order("command_aliases.name").
		Find(&aliases).Error
	return aliases, apperrors.Translate(err)
}

// CanAccess 用户是否通过任一角色获得服务器访问权限
func (s *RoleService) CanAccess(ctx context.Context, userUUID, serverUUID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Table("user_role_relation").
		Joins("JOIN role_server_relation ON role_server_relation.role_uuid = user_role_relation.role_uuid").
		Where("user_role_relation.user_uuid = ? AND role_server_relation.server_uuid = ?", userUUID, serverUUID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Translate(err)
	}
	return count > 0, nil
}

func (s *RoleService) grant(ctx context.Context, rel relation, roleUUID string, uuids []string) error {
	uuids = appendUnique(nil, uuids...)
	if len(uuids) == 0 {
		return nil
	}

	err := s.Tx(ctx, func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Role{}, "role", roleUUID); err != nil {
			return err
		}
		if err := mustExist(tx, rel.other, rel.otherKind, uuids...); err != nil {
			return err
		}

		rows := make([]map[string]interface{}, 0, len(uuids))
		for _, u := range uuids {
			rows = append(rows, map[string]interface{}{rel.roleCol: roleUUID, rel.otherCol: u})
		}
		return tx.Table(rel.table).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"relation": rel.table,
		"role":     roleUUID,
		"count":    len(uuids),
	}).Info("role granted")
	return nil
}

func (s *RoleService) revoke(ctx context.Context, rel relation, roleUUID string, uuids []string) error {
	if len(uuids) == 0 {
		return nil
	}
	return s.Tx(ctx, func(tx *gorm.DB) error {
		return tx.Table(rel.table).
			Where(rel.roleCol+" = ? AND "+rel.otherCol+" IN ?", roleUUID, uuids).
			Delete(map[string]interface{}{}).Error
	})
}

// mustExist 校验 uuid 对应的记录全部存在
func mustExist(tx *gorm.DB, model models.Resource, kind string, uuids ...string) error {
	var count int64
	if err := tx.Table(model.TableName()).Where("uuid IN ?", uuids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(uuids)) {
		return fmt.Errorf("%w: %s %v", apperrors.ErrReferenceNotFound, kind, uuids)
	}
	return nil
}

// normalizeName 角色、命令别名名称统一为大写
func normalizeName(name string) string {
	return strings.ToUpper(name)
}
