package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"foxnut/internal/models"
	apperrors "foxnut/pkg/errors"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// 导出时跳过的敏感列
var exportSkipColumns = map[string]bool{
	"password": true,
}

// Exporter 将全部资源导出为 xlsx，每种资源一个工作表
type Exporter struct {
	*InventoryService
	registry *models.Registry
}

// NewExporter 创建导出器
func NewExporter(db *gorm.DB, registry *models.Registry) *Exporter {
	return &Exporter{
		InventoryService: NewInventoryService(db),
		registry:         registry,
	}
}

// Export 按注册表顺序导出实体和关联表，列顺序与表结构一致
func (e *Exporter) Export(ctx context.Context, w io.Writer) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.log.WithError(err).Warn("close workbook failed")
		}
	}()

	for i, model := range e.registry.Models() {
		table, columns, err := e.columnsOf(model)
		if err != nil {
			return err
		}

		if i == 0 {
			if err := f.SetSheetName("Sheet1", table); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(table); err != nil {
			return err
		}

		rows, err := e.rowsOf(ctx, table, columns)
		if err != nil {
			return err
		}
		if err := writeSheet(f, table, columns, rows); err != nil {
			return fmt.Errorf("写入工作表 %s 失败: %w", table, err)
		}

		e.log.WithFields(logrus.Fields{"sheet": table, "rows": len(rows)}).Debug("sheet exported")
	}

	return f.Write(w)
}

func (e *Exporter) columnsOf(model interface{}) (string, []string, error) {
	stmt := &gorm.Statement{DB: e.db}
	if err := stmt.Parse(model); err != nil {
		return "", nil, fmt.Errorf("解析模型 %T 失败: %w", model, err)
	}
	columns := make([]string, 0, len(stmt.Schema.DBNames))
	for _, name := range stmt.Schema.DBNames {
		if !exportSkipColumns[name] {
			columns = append(columns, name)
		}
	}
	return stmt.Schema.Table, columns, nil
}

func (e *Exporter) rowsOf(ctx context.Context, table string, columns []string) ([]map[string]interface{}, error) {
	q := e.db.WithContext(ctx).Table(table).Select(columns)
	for _, c := range columns {
		if c == "created_at" {
			q = q.Order("created_at")
			break
		}
	}

	var rows []map[string]interface{}
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperrors.Translate(err)
	}
	return rows, nil
}

func writeSheet(f *excelize.File, sheet string, columns []string, rows []map[string]interface{}) error {
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for r, row := range rows {
		values := make([]interface{}, len(columns))
		for i, c := range columns {
			values[i] = cellValue(row[c])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// cellValue 统一单元格取值，时间按 RFC3339 输出
func cellValue(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.UTC().Format(time.RFC3339)
	}
	return v
}
