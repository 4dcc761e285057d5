package services

import (
	"context"
	"testing"

	"foxnut/internal/models"
	apperrors "foxnut/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleNameNormalized(t *testing.T) {
	svc := NewRoleService(newTestDB(t))
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, "ops", "")
	require.NoError(t, err)
	assert.Equal(t, "OPS", role.Name)

	_, err = svc.CreateRole(ctx, "OPS", "")
	assert.ErrorIs(t, err, apperrors.ErrUniqueConstraintViolation)

	got, err := svc.GetRoleByName(ctx, "Ops")
	require.NoError(t, err)
	assert.Equal(t, role.UUID, got.UUID)

	alias, err := svc.CreateCommandAlias(ctx, "reboot", "/sbin/reboot")
	require.NoError(t, err)
	assert.Equal(t, "REBOOT", alias.Name)

	_, err = svc.CreateCommandAlias(ctx, "empty", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidField)
}

func TestRoleGrants(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db)
	users := NewUserService(db)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, "dba", "")
	require.NoError(t, err)
	alice, err := users.Create(ctx, "alice", "secret", models.UserTypeNormal)
	require.NoError(t, err)
	bob, err := users.Create(ctx, "bob", "", models.UserTypeLDAP)
	require.NoError(t, err)
	server := newServer("SN-ROLE")
	require.NoError(t, svc.Create(ctx, server))
	alias, err := svc.CreateCommandAlias(ctx, "restart-db", "systemctl restart postgresql")
	require.NoError(t, err)

	require.NoError(t, svc.GrantUsers(ctx, role.UUID, alice.UUID, bob.UUID))
	// 重复授权忽略
	require.NoError(t, svc.GrantUsers(ctx, role.UUID, alice.UUID))
	require.NoError(t, svc.GrantServers(ctx, role.UUID, server.UUID))
	require.NoError(t, svc.GrantCommandAliases(ctx, role.UUID, alias.UUID))

	members, err := svc.UsersOfRole(ctx, role.UUID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	roles, err := svc.RolesOfUser(ctx, alice.UUID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "DBA", roles[0].Name)

	servers, err := svc.ServersOfRole(ctx, role.UUID)
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, server.UUID, servers[0].UUID)

	aliases, err := svc.CommandAliasesOfRole(ctx, role.UUID)
	require.NoError(t, err)
	require.Len(t, aliases, 1)

	subs, err := svc.LoadSubResources(ctx, &models.Role{VenusBase: models.VenusBase{UUID: role.UUID}})
	require.NoError(t, err)
	assert.Len(t, subs["command_aliases"], 1)

	subs, err = svc.LoadSubResources(ctx, &models.User{VenusBase: models.VenusBase{UUID: alice.UUID}})
	require.NoError(t, err)
	assert.Len(t, subs["roles"], 1)

	ok, err := svc.CanAccess(ctx, alice.UUID, server.UUID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.RevokeUsers(ctx, role.UUID, alice.UUID))
	ok, err = svc.CanAccess(ctx, alice.UUID, server.UUID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CanAccess(ctx, bob.UUID, server.UUID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.RevokeServers(ctx, role.UUID, server.UUID))
	require.NoError(t, svc.RevokeCommandAliases(ctx, role.UUID, alias.UUID))
	servers, err = svc.ServersOfRole(ctx, role.UUID)
	require.NoError(t, err)
	assert.Empty(t, servers)
}

func TestRoleGrantMissingReference(t *testing.T) {
	svc := NewRoleService(newTestDB(t))
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, "net", "")
	require.NoError(t, err)

	err = svc.GrantServers(ctx, role.UUID, "missing")
	assert.ErrorIs(t, err, apperrors.ErrReferenceNotFound)

	err = svc.GrantUsers(ctx, "missing-role", "missing")
	assert.ErrorIs(t, err, apperrors.ErrReferenceNotFound)

	// 空列表不做任何事
	assert.NoError(t, svc.GrantUsers(ctx, role.UUID))
}
