package database

import (
	"fmt"

	"foxnut/internal/models"
	"foxnut/pkg/logger"

	"gorm.io/gorm"
)

// Migrate 按注册表顺序建表，多对多关联表使用自定义模型（联合主键）
func Migrate(db *gorm.DB, reg *models.Registry) error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting database migration...")

	if err := SetupJoinTables(db, reg); err != nil {
		return err
	}

	if err := db.AutoMigrate(reg.Models()...); err != nil {
		appLogger.Errorf("Database migration failed: %v", err)
		return err
	}

	appLogger.Info("Database migration completed successfully")
	return nil
}

// SetupJoinTables 注册多对多关联表模型，需在使用关联前调用
func SetupJoinTables(db *gorm.DB, reg *models.Registry) error {
	for _, jt := range reg.JoinTables() {
		if err := db.SetupJoinTable(jt.Owner, jt.Field, jt.Model); err != nil {
			return fmt.Errorf("设置关联表 %T.%s 失败: %w", jt.Owner, jt.Field, err)
		}
	}
	return nil
}
