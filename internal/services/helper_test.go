package services

import (
	"context"
	"path/filepath"
	"testing"

	"foxnut/internal/database"
	"foxnut/internal/models"
	"foxnut/pkg/config"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "foxnut.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, models.NewRegistry()))
	return db
}

func strPtr(s string) *string {
	return &s
}

// newRack 创建数据中心和其下的一个机柜
func newRack(t *testing.T, inv *InventoryService) (*models.DataCenter, *models.Rack) {
	t.Helper()
	ctx := context.Background()

	dc := &models.DataCenter{Location: "shanghai"}
	dc.Name = "dc1"
	require.NoError(t, inv.Create(ctx, dc))

	rack := &models.Rack{DCUUID: dc.UUID, Height: 42}
	rack.Name = "A01"
	require.NoError(t, inv.Create(ctx, rack))
	return dc, rack
}

// newSwitchPort 创建交换机和一个端口
func newSwitchPort(t *testing.T, inv *InventoryService, switchName, portName string) *models.SwitchPort {
	t.Helper()
	ctx := context.Background()

	sw := &models.Switch{Name: switchName}
	require.NoError(t, inv.Create(ctx, sw))

	port := &models.SwitchPort{SwitchUUID: sw.UUID}
	port.Name = portName
	require.NoError(t, inv.Create(ctx, port))
	return port
}

func newServer(sn string) *models.Server {
	s := &models.Server{SN: strPtr(sn), CPUModel: "Xeon"}
	s.Name = "srv-" + sn
	return s
}
