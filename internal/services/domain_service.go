package services

import (
	"context"
	"fmt"
	"time"

	"foxnut/internal/models"
	apperrors "foxnut/pkg/errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DomainService 业务域及其网段
type DomainService struct {
	*InventoryService
}

// NewDomainService 创建业务域服务
func NewDomainService(db *gorm.DB) *DomainService {
	return &DomainService{InventoryService: NewInventoryService(db)}
}

// AddNetwork 在业务域下登记网段
func (s *DomainService) AddNetwork(ctx context.Context, domainUUID string, network *models.Network) error {
	return s.Tx(ctx, func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Domain{}, "domain", domainUUID); err != nil {
			return err
		}
		network.DomainUUID = &domainUUID
		return tx.Omit(clause.Associations).Create(network).Error
	})
}

// Networks 业务域下的网段
func (s *DomainService) Networks(ctx context.Context, domainUUID string) ([]models.Network, error) {
	return Children[models.Network](ctx, s.db, "domain_uuid", domainUUID)
}

// Deploy 开始部署，记录部署负责人和时间
func (s *DomainService) Deploy(ctx context.Context, uuid, manager string) error {
	err := updateColumns(ctx, s.db, &models.Domain{}, uuid, map[string]interface{}{
		"state":              models.DomainStateDeploying,
		"deployment_manager": manager,
		"deployed_at":        time.Now().UTC(),
	})
	if err == nil {
		s.log.WithFields(logrus.Fields{"domain": uuid, "manager": manager}).Info("domain deploying")
	}
	return err
}

// StartTesting 进入测试阶段
func (s *DomainService) StartTesting(ctx context.Context, uuid string) error {
	return updateColumns(ctx, s.db, &models.Domain{}, uuid, map[string]interface{}{
		"state": models.DomainStateTesting,
	})
}

// Publish 发布到生产
func (s *DomainService) Publish(ctx context.Context, uuid string) error {
	err := updateColumns(ctx, s.db, &models.Domain{}, uuid, map[string]interface{}{
		"state":        models.DomainStateProduct,
		"published_at": time.Now().UTC(),
	})
	if err == nil {
		s.log.WithFields(logrus.Fields{"domain": uuid}).Info("domain published")
	}
	return err
}

// UpdateConf 原地修改 put、port_conf 或 raid_conf，只写回被改动的列
func (s *DomainService) UpdateConf(ctx context.Context, uuid, column string, mutate func(conf *models.JSONDict)) (*models.Domain, error) {
	domain := &models.Domain{}
	if err := s.Get(ctx, domain, uuid); err != nil {
		return nil, err
	}
	conf, ok := domain.JSONColumns()[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a json column", apperrors.ErrInvalidField, column)
	}
	mutate(conf)
	if err := s.Patch(ctx, domain); err != nil {
		return nil, err
	}
	return domain, nil
}
