package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"foxnut/internal/models"
	"foxnut/pkg/config"
	apperrors "foxnut/pkg/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), config.DatabaseConfig{})
	require.NoError(t, err)
	return db, mock
}

func TestWithinTx(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := WithinTx(context.Background(), db, func(tx *gorm.DB) error {
			return nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := WithinTx(context.Background(), db, func(tx *gorm.DB) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on panic", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = WithinTx(context.Background(), db, func(tx *gorm.DB) error {
				panic("boom")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConnectUnsupportedDriver(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestMigrateSQLite(t *testing.T) {
	db, err := Connect(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "inventory.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	reg := models.NewRegistry()
	require.NoError(t, Migrate(db, reg))
	require.NoError(t, Ping(context.Background(), db))

	for _, e := range reg.Entries() {
		assert.True(t, db.Migrator().HasTable(e.Type), e.Type)
	}
	for _, table := range []string{"user_role_relation", "role_server_relation", "role_command_relation"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// 关联表联合主键：同一对关系只能出现一次
	role := &models.Role{Name: "ops"}
	alias := &models.CommandAlias{Name: "reboot", Commands: "/sbin/reboot"}
	require.NoError(t, db.Create(role).Error)
	require.NoError(t, db.Create(alias).Error)
	require.NoError(t, db.Create(&models.RoleCommandRelation{RoleUUID: role.UUID, CommandUUID: alias.UUID}).Error)
	err = db.Create(&models.RoleCommandRelation{RoleUUID: role.UUID, CommandUUID: alias.UUID}).Error
	assert.ErrorIs(t, apperrors.Translate(err), apperrors.ErrUniqueConstraintViolation)
}
