package services

import (
	"context"
	"testing"
	"time"

	"foxnut/internal/models"
	apperrors "foxnut/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerRegister(t *testing.T) {
	db := newTestDB(t)
	svc := NewServerService(db)
	ctx := context.Background()
	dc, rack := newRack(t, svc.InventoryService)

	server := newServer("SN-REG")
	server.RackUUID = &rack.UUID
	disks := []models.Disk{
		{WWN: strPtr("wwn-a"), DiskType: models.DiskTypeSSD, TotalGB: 480},
		{WWN: strPtr("wwn-b"), DiskType: models.DiskTypeHDD, TotalGB: 4000},
	}
	ports := []models.ServerPort{
		{MacAddr: strPtr("aa:bb:cc:00:00:01"), Speed: 10000},
	}
	require.NoError(t, svc.Register(ctx, server, disks, ports))

	require.NotNil(t, server.DCUUID)
	assert.Equal(t, dc.UUID, *server.DCUUID)
	assert.Len(t, server.Disks, 2)
	assert.Equal(t, server.UUID, *server.Disks[0].ServerUUID)
	assert.Equal(t, server.UUID, server.Ports[0].ServerUUID)

	subs, err := svc.LoadSubResources(ctx, &models.Server{ProductBase: models.ProductBase{VenusBase: models.VenusBase{UUID: server.UUID}}})
	require.NoError(t, err)
	assert.Len(t, subs["disks"], 2)
	assert.Len(t, subs["ports"], 1)

	got := &models.Server{}
	require.NoError(t, svc.Get(ctx, got, server.UUID))
	require.NotNil(t, got.PowerStatus)
	assert.True(t, *got.PowerStatus)
	assert.Equal(t, models.ProductStatusActive, got.Status)
}

func TestServerRegisterRollback(t *testing.T) {
	db := newTestDB(t)
	svc := NewServerService(db)
	ctx := context.Background()

	ports := []models.ServerPort{
		{MacAddr: strPtr("aa:bb:cc:00:00:01")},
		{MacAddr: strPtr("aa:bb:cc:00:00:01")},
	}
	err := svc.Register(ctx, newServer("SN-RB"), nil, ports)
	assert.ErrorIs(t, err, apperrors.ErrUniqueConstraintViolation)

	var count int64
	require.NoError(t, db.Model(&models.Server{}).Count(&count).Error)
	assert.Zero(t, count)

	server := newServer("SN-NORACK")
	server.RackUUID = strPtr("missing")
	err = svc.Register(ctx, server, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrReferenceNotFound)
}

func TestServerState(t *testing.T) {
	svc := NewServerService(newTestDB(t))
	ctx := context.Background()

	server := newServer("SN-STATE")
	require.NoError(t, svc.Create(ctx, server))

	err := svc.SetState(ctx, server.UUID, "flying")
	assert.ErrorIs(t, err, apperrors.ErrInvalidEnumValue)

	next, err := svc.Advance(ctx, server.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.ServerStateShelving, next)

	// 不校验迁移顺序，可直接跳到任意状态
	require.NoError(t, svc.SetState(ctx, server.UUID, models.ServerStateProduct))
	got := &models.Server{}
	require.NoError(t, svc.Get(ctx, got, server.UUID))
	assert.Equal(t, models.ServerStateProduct, got.State)

	_, err = svc.Advance(ctx, server.UUID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidEnumValue)

	assert.ErrorIs(t, svc.SetState(ctx, "missing", models.ServerStateNull), apperrors.ErrNotFound)
}

func TestServerPowerAndLaunch(t *testing.T) {
	svc := NewServerService(newTestDB(t))
	ctx := context.Background()

	server := newServer("SN-POWER")
	require.NoError(t, svc.Create(ctx, server))

	require.NoError(t, svc.SetPowerStatus(ctx, server.UUID, false))
	launched := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, svc.Launch(ctx, server.UUID, launched))

	got := &models.Server{}
	require.NoError(t, svc.Get(ctx, got, server.UUID))
	require.NotNil(t, got.PowerStatus)
	assert.False(t, *got.PowerStatus)
	require.NotNil(t, got.LaunchedAt)
	assert.True(t, launched.Equal(*got.LaunchedAt))
}

func TestServerUpdateRaidConf(t *testing.T) {
	svc := NewServerService(newTestDB(t))
	ctx := context.Background()

	server := newServer("SN-RAID")
	require.NoError(t, svc.Create(ctx, server))

	updated, err := svc.UpdateRaidConf(ctx, server.UUID, func(conf *models.JSONDict) {
		conf.Set("level", "raid5")
		conf.Set("disks", []interface{}{"sda", "sdb", "sdc"})
	})
	require.NoError(t, err)
	assert.False(t, updated.RaidConf.IsDirty())

	got := &models.Server{}
	require.NoError(t, svc.Get(ctx, got, server.UUID))
	assert.Equal(t, 2, got.RaidConf.Len())

	_, err = svc.UpdateRaidConf(ctx, server.UUID, func(conf *models.JSONDict) {
		conf.Delete("disks")
	})
	require.NoError(t, err)
	require.NoError(t, svc.Get(ctx, got, server.UUID))
	assert.Equal(t, 1, got.RaidConf.Len())

	_, err = svc.UpdateRaidConf(ctx, "missing", func(conf *models.JSONDict) {})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestServerLinkPort(t *testing.T) {
	db := newTestDB(t)
	svc := NewServerService(db)
	ctx := context.Background()

	swp := newSwitchPort(t, svc.InventoryService, "tor-1", "Eth1/1")
	ports := []models.ServerPort{{}, {}}
	require.NoError(t, svc.Register(ctx, newServer("SN-LINK"), nil, ports))
	first, second := ports[0].UUID, ports[1].UUID

	require.NoError(t, svc.LinkPort(ctx, first, swp.UUID))
	// 重复对接同一对端口不报错
	require.NoError(t, svc.LinkPort(ctx, first, swp.UUID))

	peer, err := svc.PeerOf(ctx, first)
	require.NoError(t, err)
	require.NotNil(t, peer)
	assert.Equal(t, swp.UUID, peer.UUID)

	err = svc.LinkPort(ctx, second, swp.UUID)
	assert.ErrorIs(t, err, apperrors.ErrUniqueConstraintViolation)

	subs, err := svc.LoadSubResources(ctx, &models.SwitchPort{ProductBase: models.ProductBase{VenusBase: models.VenusBase{UUID: swp.UUID}}})
	require.NoError(t, err)
	linked, ok := subs["server_port"].(*models.ServerPort)
	require.True(t, ok)
	require.NotNil(t, linked)
	assert.Equal(t, first, linked.UUID)

	require.NoError(t, svc.UnlinkPort(ctx, first))
	peer, err = svc.PeerOf(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, peer)

	require.NoError(t, svc.LinkPort(ctx, second, swp.UUID))

	err = svc.LinkPort(ctx, first, "missing")
	assert.ErrorIs(t, err, apperrors.ErrReferenceNotFound)
}

func TestServerPortUniqueLinkInStorage(t *testing.T) {
	svc := NewServerService(newTestDB(t))
	ctx := context.Background()

	swp := newSwitchPort(t, svc.InventoryService, "tor-2", "Eth1/2")
	ports := []models.ServerPort{
		{SwitchPortUUID: &swp.UUID},
		{SwitchPortUUID: &swp.UUID},
	}
	err := svc.Register(ctx, newServer("SN-UNIQ"), nil, ports)
	assert.ErrorIs(t, err, apperrors.ErrUniqueConstraintViolation)
}
