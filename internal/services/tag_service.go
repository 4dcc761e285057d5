package services

import (
	"context"
	"fmt"

	"foxnut/internal/models"
	apperrors "foxnut/pkg/errors"

	"gorm.io/gorm"
)

// TagService 资源标签
// 标签通过 resource_type + resource_uuid 松散引用资源，写入时只校验资源类型
type TagService struct {
	*InventoryService
	registry *models.Registry
}

// NewTagService 创建标签服务
func NewTagService(db *gorm.DB, registry *models.Registry) *TagService {
	return &TagService{
		InventoryService: NewInventoryService(db),
		registry:         registry,
	}
}

// Tag 给资源打标签
func (s *TagService) Tag(ctx context.Context, r models.Resource, name, typ string) (*models.Tag, error) {
	return s.TagByRef(ctx, r.TableName(), r.GetUUID(), name, typ)
}

// TagByRef 按资源类型和 uuid 打标签，不校验资源是否存在
func (s *TagService) TagByRef(ctx context.Context, resourceType, resourceUUID, name, typ string) (*models.Tag, error) {
	if _, ok := s.registry.Lookup(resourceType); !ok {
		return nil, fmt.Errorf("%w: unknown resource type %q", apperrors.ErrInvalidField, resourceType)
	}
	if resourceUUID == "" {
		return nil, fmt.Errorf("%w: resource uuid is empty", apperrors.ErrMissingRequiredReference)
	}

	tag := &models.Tag{
		Name:         name,
		Type:         typ,
		ResourceType: resourceType,
		ResourceUUID: resourceUUID,
	}
	if err := s.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// TagsOf 资源上的标签
func (s *TagService) TagsOf(ctx context.Context, r models.Resource) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Where("resource_type = ? AND resource_uuid = ?", r.TableName(), r.GetUUID()).
		Order("name").
		Find(&tags).Error
	return tags, apperrors.Translate(err)
}

// FindByName 按标签名查找某类资源上的标签
func (s *TagService) FindByName(ctx context.Context, resourceType, name string) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Where("resource_type = ? AND name = ?", resourceType, name).
		Order("created_at").
		Find(&tags).Error
	return tags, apperrors.Translate(err)
}

// Untag 删除标签
func (s *TagService) Untag(ctx context.Context, tagUUID string) error {
	return s.Tx(ctx, func(tx *gorm.DB) error {
		result := tx.Where("uuid = ?", tagUUID).Delete(&models.Tag{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: tag %s", apperrors.ErrNotFound, tagUUID)
		}
		return nil
	})
}

// Resolve 读取标签引用的资源，资源不存在时返回 ErrReferenceNotFound
func (s *TagService) Resolve(ctx context.Context, tag *models.Tag) (models.Resource, error) {
	entry, ok := s.registry.Lookup(tag.ResourceType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown resource type %q", apperrors.ErrReferenceNotFound, tag.ResourceType)
	}
	r := entry.New()
	if err := s.Get(ctx, r, tag.ResourceUUID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %s", apperrors.ErrReferenceNotFound, tag.ResourceType, tag.ResourceUUID)
		}
		return nil, err
	}
	return r, nil
}

// Dangling 列出引用已不存在资源的标签
func (s *TagService) Dangling(ctx context.Context) ([]models.Tag, error) {
	db := s.db.WithContext(ctx)
	types := make([]string, 0)
	var dangling []models.Tag

	for _, e := range s.registry.Entries() {
		types = append(types, e.Type)
		var tags []models.Tag
		err := db.Where("resource_type = ? AND resource_uuid NOT IN (?)", e.Type, s.db.Table(e.Type).Select("uuid")).
			Find(&tags).Error
		if err != nil {
			return nil, apperrors.Translate(err)
		}
		dangling = append(dangling, tags...)
	}

	var unknown []models.Tag
	if err := db.Where("resource_type NOT IN ?", types).Find(&unknown).Error; err != nil {
		return nil, apperrors.Translate(err)
	}
	return append(dangling, unknown...), nil
}
