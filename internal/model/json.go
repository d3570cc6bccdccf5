package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONMap 是一个可以直接映射到 JSON 列的自由结构键值对。
// RFP 的结构化需求与提案的抽取结果都由 LLM 决定字段，因此不固定 schema。
type JSONMap map[string]interface{}

// Value 实现了 driver.Valuer 接口。
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan 实现了 sql.Scanner 接口。
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for JSONMap")
	}
	return json.Unmarshal(data, m)
}

// UintSlice 是一个以 JSON 形式存储的 ID 列表列。
type UintSlice []uint

// Value 实现了 driver.Valuer 接口。
func (s UintSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan 实现了 sql.Scanner 接口。
func (s *UintSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for UintSlice")
	}
	return json.Unmarshal(data, s)
}
