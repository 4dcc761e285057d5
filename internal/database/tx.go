package database

import (
	"context"

	"gorm.io/gorm"
)

// WithinTx 在事务中执行 fn，fn 返回错误或 panic 时回滚，否则提交
func WithinTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
