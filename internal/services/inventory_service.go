package services

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"foxnut/internal/database"
	"foxnut/internal/models"
	apperrors "foxnut/pkg/errors"
	"foxnut/pkg/logger"
	"foxnut/pkg/pagination"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryService 通用资源存储操作
// 写入时忽略关联字段，外键列是关系的唯一事实来源
type InventoryService struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewInventoryService 创建资源服务
func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db, log: logger.GetLogger()}
}

// DB 返回底层连接
func (s *InventoryService) DB() *gorm.DB {
	return s.db
}

// Tx 在事务中执行 fn，错误统一转换为存储层错误类型
func (s *InventoryService) Tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return apperrors.Translate(database.WithinTx(ctx, s.db, fn))
}

// Create 创建资源
func (s *InventoryService) Create(ctx context.Context, r models.Resource) error {
	if err := s.Tx(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(r).Error
	}); err != nil {
		return err
	}

	resetDirty(r)
	s.log.WithFields(logrus.Fields{
		"resource_type": r.TableName(),
		"uuid":          r.GetUUID(),
	}).Debug("resource created")
	return nil
}

// Get 按 uuid 读取资源到 r，不过滤已软删除记录
func (s *InventoryService) Get(ctx context.Context, r models.Resource, uuid string) error {
	err := s.db.WithContext(ctx).Where("uuid = ?", uuid).First(r).Error
	return apperrors.Translate(err)
}

// Save 整行写回
func (s *InventoryService) Save(ctx context.Context, r models.Resource) error {
	if r.GetUUID() == "" {
		return fmt.Errorf("%w: uuid is empty", apperrors.ErrInvalidField)
	}
	// 只更新已存在的行，uuid 和 created_at 不随整行写回
	err := s.Tx(ctx, func(tx *gorm.DB) error {
		result := tx.Model(r).Select("*").Omit(clause.Associations, "uuid", "created_at").Updates(r)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, r.TableName(), r.GetUUID())
		}
		return nil
	})
	if err != nil {
		return err
	}

	resetDirty(r)
	return nil
}

// Patch 只更新指定列，以及被原地修改过的 JSON 列
func (s *InventoryService) Patch(ctx context.Context, r models.Resource, columns ...string) error {
	cols := make([]string, 0, len(columns)+3)
	for _, c := range columns {
		if c == "uuid" {
			return fmt.Errorf("%w: uuid is immutable", apperrors.ErrInvalidField)
		}
		cols = appendUnique(cols, c)
	}
	cols = appendUnique(cols, dirtyColumns(r)...)
	if len(cols) == 0 {
		return nil
	}

	err := s.Tx(ctx, func(tx *gorm.DB) error {
		result := tx.Model(r).Omit(clause.Associations).Select(cols).Updates(r)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, r.TableName(), r.GetUUID())
		}
		return nil
	})
	if err != nil {
		return err
	}

	resetDirty(r)
	s.log.WithFields(logrus.Fields{
		"resource_type": r.TableName(),
		"uuid":          r.GetUUID(),
		"columns":       cols,
	}).Debug("resource patched")
	return nil
}

// SoftDelete 标记删除，不级联到子资源
func (s *InventoryService) SoftDelete(ctx context.Context, r models.Resource) error {
	now := time.Now().UTC()
	if err := s.updateColumns(ctx, r, map[string]interface{}{
		"deleted":    true,
		"deleted_at": now,
	}); err != nil {
		return err
	}

	if sd, ok := r.(softDeletable); ok {
		sd.SetDeleted(&now)
	}
	s.log.WithFields(logrus.Fields{
		"resource_type": r.TableName(),
		"uuid":          r.GetUUID(),
	}).Info("resource soft deleted")
	return nil
}

// Restore 撤销软删除
func (s *InventoryService) Restore(ctx context.Context, r models.Resource) error {
	if err := s.updateColumns(ctx, r, map[string]interface{}{
		"deleted":    false,
		"deleted_at": nil,
	}); err != nil {
		return err
	}

	if sd, ok := r.(softDeletable); ok {
		sd.SetDeleted(nil)
	}
	return nil
}

// LoadSubResources 预加载并返回子资源集合
// 预加载到新实例后只回填关联字段，p 上未保存的修改和 JSON 脏标记保持不变
func (s *InventoryService) LoadSubResources(ctx context.Context, p models.Parent) (map[string]interface{}, error) {
	fresh := reflect.New(reflect.TypeOf(p).Elem())
	assocs := p.SubResourceAssociations()

	q := s.db.WithContext(ctx)
	for _, assoc := range assocs {
		q = q.Preload(assoc)
	}
	if err := q.Where("uuid = ?", p.GetUUID()).First(fresh.Interface()).Error; err != nil {
		return nil, apperrors.Translate(err)
	}

	dst := reflect.ValueOf(p).Elem()
	for _, assoc := range assocs {
		dst.FieldByName(assoc).Set(fresh.Elem().FieldByName(assoc))
	}
	return p.SubResources(), nil
}

// updateColumns 按 uuid 直接更新列并刷新 updated_at，不触发模型钩子
func (s *InventoryService) updateColumns(ctx context.Context, r models.Resource, values map[string]interface{}) error {
	return updateColumns(ctx, s.db, r, r.GetUUID(), values)
}

func updateColumns(ctx context.Context, db *gorm.DB, model models.Resource, uuid string, values map[string]interface{}) error {
	if uuid == "" {
		return fmt.Errorf("%w: uuid is empty", apperrors.ErrInvalidField)
	}
	values["updated_at"] = time.Now().UTC()

	return apperrors.Translate(database.WithinTx(ctx, db, func(tx *gorm.DB) error {
		result := tx.Table(model.TableName()).Where("uuid = ?", uuid).UpdateColumns(values)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, model.TableName(), uuid)
		}
		return nil
	}))
}

type softDeletable interface {
	SetDeleted(at *time.Time)
}

func dirtyColumns(r models.Resource) []string {
	jc, ok := r.(models.JSONCarrier)
	if !ok {
		return nil
	}
	var cols []string
	for name, d := range jc.JSONColumns() {
		if d.IsDirty() {
			cols = append(cols, name)
		}
	}
	return cols
}

func resetDirty(r models.Resource) {
	jc, ok := r.(models.JSONCarrier)
	if !ok {
		return
	}
	for _, d := range jc.JSONColumns() {
		d.ResetDirty()
	}
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

// ========== 关系访问 ==========

// ListOptions 列表查询选项
type ListOptions struct {
	LiveOnly bool                   // 只返回未软删除的记录
	Where    map[string]interface{} // 列等值过滤
	Page     *pagination.PageParams // 为空时不分页
}

// Live 排除已软删除记录
func Live(db *gorm.DB) *gorm.DB {
	return db.Where("deleted = ?", false)
}

// List 列出某类资源
func List[T any](ctx context.Context, db *gorm.DB, opts ListOptions) ([]T, *pagination.PageInfo, error) {
	q := db.WithContext(ctx).Model(new(T))
	if opts.LiveOnly {
		q = q.Scopes(Live)
	}
	for col, v := range opts.Where {
		q = q.Where(clause.Eq{Column: clause.Column{Name: col}, Value: v})
	}

	var items []T
	if opts.Page == nil {
		if err := q.Order("created_at").Find(&items).Error; err != nil {
			return nil, nil, apperrors.Translate(err)
		}
		return items, nil, nil
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, nil, apperrors.Translate(err)
	}
	if err := q.Order("created_at").Offset(opts.Page.GetOffset()).Limit(opts.Page.GetLimit()).Find(&items).Error; err != nil {
		return nil, nil, apperrors.Translate(err)
	}
	return items, pagination.NewPageInfo(opts.Page.Page, opts.Page.PageSize, total), nil
}

// Children 正向访问：按外键列查子资源
func Children[T any](ctx context.Context, db *gorm.DB, fkColumn, parentUUID string) ([]T, error) {
	var items []T
	err := db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: fkColumn}, Value: parentUUID}).
		Find(&items).Error
	return items, apperrors.Translate(err)
}

// Lookup 反向访问：按 uuid 直接查父资源
func Lookup[T any](ctx context.Context, db *gorm.DB, uuid string) (*T, error) {
	item := new(T)
	if err := db.WithContext(ctx).Where("uuid = ?", uuid).First(item).Error; err != nil {
		return nil, apperrors.Translate(err)
	}
	return item, nil
}

// RacksOf 数据中心下的机柜
func (s *InventoryService) RacksOf(ctx context.Context, dcUUID string) ([]models.Rack, error) {
	return Children[models.Rack](ctx, s.db, "dc_uuid", dcUUID)
}

// ServersInRack 机柜内的服务器
func (s *InventoryService) ServersInRack(ctx context.Context, rackUUID string) ([]models.Server, error) {
	return Children[models.Server](ctx, s.db, "rack_uuid", rackUUID)
}

// SwitchesInRack 机柜内的交换机
func (s *InventoryService) SwitchesInRack(ctx context.Context, rackUUID string) ([]models.Switch, error) {
	return Children[models.Switch](ctx, s.db, "rack_uuid", rackUUID)
}

// RackOf 服务器所在机柜，未上架时返回 nil
func (s *InventoryService) RackOf(ctx context.Context, server *models.Server) (*models.Rack, error) {
	if server.RackUUID == nil {
		return nil, nil
	}
	return Lookup[models.Rack](ctx, s.db, *server.RackUUID)
}

// DataCenterOf 机柜所属数据中心
func (s *InventoryService) DataCenterOf(ctx context.Context, rack *models.Rack) (*models.DataCenter, error) {
	return Lookup[models.DataCenter](ctx, s.db, rack.DCUUID)
}
