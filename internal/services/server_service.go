package services

import (
	"context"
	"fmt"
	"time"

	"foxnut/internal/models"
	apperrors "foxnut/pkg/errors"
	"foxnut/pkg/logger"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ServerService 服务器上架、状态流转和端口对接
type ServerService struct {
	*InventoryService
}

// NewServerService 创建服务器服务
func NewServerService(db *gorm.DB) *ServerService {
	return &ServerService{InventoryService: NewInventoryService(db)}
}

// Register 在同一事务中登记服务器及其磁盘、网口，任一失败全部回滚
func (s *ServerService) Register(ctx context.Context, server *models.Server, disks []models.Disk, ports []models.ServerPort) error {
	err := s.Tx(ctx, func(tx *gorm.DB) error {
		if server.RackUUID != nil {
			var rack models.Rack
			if err := tx.Where("uuid = ?", *server.RackUUID).First(&rack).Error; err != nil {
				return referenceError(err, "rack", *server.RackUUID)
			}
			// 未显式指定数据中心时继承机柜所在数据中心
			if server.DCUUID == nil {
				dc := rack.DCUUID
				server.DCUUID = &dc
			}
		}

		if err := tx.Omit(clause.Associations).Create(server).Error; err != nil {
			return err
		}
		for i := range disks {
			disks[i].ServerUUID = &server.UUID
		}
		if len(disks) > 0 {
			if err := tx.Omit(clause.Associations).Create(&disks).Error; err != nil {
				return err
			}
		}
		for i := range ports {
			ports[i].ServerUUID = server.UUID
		}
		if len(ports) > 0 {
			if err := tx.Omit(clause.Associations).Create(&ports).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	server.Disks = disks
	server.Ports = ports
	resetDirty(server)
	s.log.WithFields(logrus.Fields{
		"uuid":  server.UUID,
		"disks": len(disks),
		"ports": len(ports),
	}).Info("server registered")
	return nil
}

// SetState 设置生命周期状态，不校验迁移顺序
func (s *ServerService) SetState(ctx context.Context, uuid string, state models.ServerState) error {
	if !state.Valid() {
		return fmt.Errorf("%w: state %q", apperrors.ErrInvalidEnumValue, state)
	}
	return updateColumns(ctx, s.db, &models.Server{}, uuid, map[string]interface{}{"state": state})
}

// Advance 推进到生命周期中的下一个状态
func (s *ServerService) Advance(ctx context.Context, uuid string) (models.ServerState, error) {
	var next models.ServerState
	err := s.Tx(ctx, func(tx *gorm.DB) error {
		var server models.Server
		if err := tx.Where("uuid = ?", uuid).First(&server).Error; err != nil {
			return err
		}
		current := server.State
		if current == "" {
			current = models.ServerStateNull
		}
		n, ok := current.Next()
		if !ok {
			return fmt.Errorf("%w: state %q has no successor", apperrors.ErrInvalidEnumValue, current)
		}
		next = n
		return tx.Model(&models.Server{}).Where("uuid = ?", uuid).UpdateColumns(map[string]interface{}{
			"state":      next,
			"updated_at": time.Now().UTC(),
		}).Error
	})
	return next, err
}

// SetPowerStatus 设置电源状态
func (s *ServerService) SetPowerStatus(ctx context.Context, uuid string, on bool) error {
	return updateColumns(ctx, s.db, &models.Server{}, uuid, map[string]interface{}{"power_status": on})
}

// Launch 记录上线时间
func (s *ServerService) Launch(ctx context.Context, uuid string, at time.Time) error {
	return updateColumns(ctx, s.db, &models.Server{}, uuid, map[string]interface{}{"launched_at": at.UTC()})
}

// UpdateRaidConf 读取后原地修改 raid_conf，只有真正改动时才写回
func (s *ServerService) UpdateRaidConf(ctx context.Context, uuid string, mutate func(conf *models.JSONDict)) (*models.Server, error) {
	server := &models.Server{}
	if err := s.Get(ctx, server, uuid); err != nil {
		return nil, err
	}
	mutate(&server.RaidConf)
	if err := s.Patch(ctx, server); err != nil {
		return nil, err
	}
	return server, nil
}

// LinkPort 将服务器网口与交换机端口对接，一个交换机端口只能对接一个服务器网口
func (s *ServerService) LinkPort(ctx context.Context, serverPortUUID, switchPortUUID string) error {
	err := s.Tx(ctx, func(tx *gorm.DB) error {
		var sp models.ServerPort
		if err := tx.Where("uuid = ?", serverPortUUID).First(&sp).Error; err != nil {
			return referenceError(err, "server port", serverPortUUID)
		}
		var swp models.SwitchPort
		if err := tx.Where("uuid = ?", switchPortUUID).First(&swp).Error; err != nil {
			return referenceError(err, "switch port", switchPortUUID)
		}

		var holder models.ServerPort
		err := tx.Where("switch_port_uuid = ? AND uuid <> ?", switchPortUUID, serverPortUUID).First(&holder).Error
		if err == nil {
			return fmt.Errorf("%w: switch port %s already linked to server port %s",
				apperrors.ErrUniqueConstraintViolation, switchPortUUID, holder.UUID)
		}
		if !apperrors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Model(&models.ServerPort{}).Where("uuid = ?", serverPortUUID).UpdateColumns(map[string]interface{}{
			"switch_port_uuid": switchPortUUID,
			"updated_at":       time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return err
	}

	logger.GetLogger().WithFields(logrus.Fields{
		"server_port": serverPortUUID,
		"switch_port": switchPortUUID,
	}).Info("port linked")
	return nil
}

// UnlinkPort 解除服务器网口的对接
func (s *ServerService) UnlinkPort(ctx context.Context, serverPortUUID string) error {
	return updateColumns(ctx, s.db, &models.ServerPort{}, serverPortUUID, map[string]interface{}{"switch_port_uuid": nil})
}

// PeerOf 返回服务器网口对接的交换机端口，未对接时返回 nil
func (s *ServerService) PeerOf(ctx context.Context, serverPortUUID string) (*models.SwitchPort, error) {
	sp, err := Lookup[models.ServerPort](ctx, s.db, serverPortUUID)
	if err != nil {
		return nil, err
	}
	if sp.SwitchPortUUID == nil {
		return nil, nil
	}
	return Lookup[models.SwitchPort](ctx, s.db, *sp.SwitchPortUUID)
}

// referenceError 引用的资源不存在时转换为 ErrReferenceNotFound
func referenceError(err error, kind, uuid string) error {
	if apperrors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %s", apperrors.ErrReferenceNotFound, kind, uuid)
	}
	return err
}
