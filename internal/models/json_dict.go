package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	apperrors "foxnut/pkg/errors"

	"gorm.io/datatypes"
)

// JSONDict 以 JSON 文本形式存储在单个 text 列中的字典
// 通过 Set/Delete/Replace 修改时记录脏标记，未重新赋值字段也能在下次持久化时被识别
// 直接修改 Map() 返回的副本不会生效
type JSONDict struct {
	data  datatypes.JSONMap
	dirty bool
}

// NewJSONDict 由 map 构造，新值视为已修改
func NewJSONDict(m map[string]interface{}) JSONDict {
	d := JSONDict{data: datatypes.JSONMap{}, dirty: true}
	for k, v := range m {
		d.data[k] = v
	}
	return d
}

// Get 读取键值
func (d *JSONDict) Get(key string) (interface{}, bool) {
	v, ok := d.data[key]
	return v, ok
}

// Set 写入键值并标记为已修改
func (d *JSONDict) Set(key string, value interface{}) {
	if d.data == nil {
		d.data = datatypes.JSONMap{}
	}
	d.data[key] = value
	d.dirty = true
}

// Delete 删除键并标记为已修改，键不存在时不做任何事
func (d *JSONDict) Delete(key string) {
	if _, ok := d.data[key]; !ok {
		return
	}
	delete(d.data, key)
	d.dirty = true
}

// Replace 整体替换内容
func (d *JSONDict) Replace(m map[string]interface{}) {
	d.data = datatypes.JSONMap{}
	for k, v := range m {
		d.data[k] = v
	}
	d.dirty = true
}

// Map 返回内容副本
func (d JSONDict) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(d.data))
	for k, v := range d.data {
		out[k] = v
	}
	return out
}

// Len 键数量
func (d JSONDict) Len() int {
	return len(d.data)
}

// IsDirty 自上次读取或持久化后是否被修改
func (d JSONDict) IsDirty() bool {
	return d.dirty
}

// MarkDirty 对嵌套值做了原地修改时手动标记
func (d *JSONDict) MarkDirty() {
	d.dirty = true
}

// ResetDirty 持久化成功后清除脏标记
func (d *JSONDict) ResetDirty() {
	d.dirty = false
}

// Value 编码为 JSON 文本，写入前调用
func (d JSONDict) Value() (driver.Value, error) {
	if d.data == nil {
		return "{}", nil
	}
	ba, err := d.data.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(ba), nil
}

// Scan 从 JSON 文本解码，读取后调用；NULL 和空串视为空字典
// 数字解码为 json.Number，不转换为 float64
func (d *JSONDict) Scan(value interface{}) error {
	d.dirty = false
	var raw []byte
	switch v := value.(type) {
	case nil:
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("%w: unsupported column type %T", apperrors.ErrCorruptEncodedData, value)
	}
	if len(raw) == 0 {
		d.data = datatypes.JSONMap{}
		return nil
	}
	// JSONMap.Scan 只解码第一个值，尾部多余内容需要单独拒绝
	if !json.Valid(raw) {
		return fmt.Errorf("%w: invalid json text", apperrors.ErrCorruptEncodedData)
	}

	var m datatypes.JSONMap
	if err := m.Scan(raw); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrCorruptEncodedData, err)
	}
	if m == nil {
		m = datatypes.JSONMap{}
	}
	d.data = m
	return nil
}

// GormDataType 存储为 text 列
func (JSONDict) GormDataType() string {
	return "text"
}

// MarshalJSON 序列化为普通 JSON 对象
func (d JSONDict) MarshalJSON() ([]byte, error) {
	if d.data == nil {
		return []byte("{}"), nil
	}
	return d.data.MarshalJSON()
}

// UnmarshalJSON 反序列化后视为已修改
func (d *JSONDict) UnmarshalJSON(b []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	d.Replace(m)
	return nil
}
