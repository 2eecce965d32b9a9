package model

import (
	"database/sql/driver"
	"fmt"
)

// RawJSON 可为空的 JSON 列，NULL 和空值都表示“未设置”
type RawJSON []byte

func (j RawJSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *RawJSON) Scan(value interface{}) error {
	b, ok := scanBytes(value)
	if !ok {
		return fmt.Errorf("json: unsupported scan type %T", value)
	}
	if len(b) == 0 {
		*j = nil
		return nil
	}
	*j = append(RawJSON(nil), b...)
	return nil
}

func (j RawJSON) MarshalJSON() ([]byte, error) {
	if j.IsNull() {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *RawJSON) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*j = nil
		return nil
	}
	*j = append(RawJSON(nil), b...)
	return nil
}

func (j RawJSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

func (RawJSON) GormDataType() string {
	return "json"
}
