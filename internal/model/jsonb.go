package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList 以 JSONB 数组存储的字符串集合。
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, (*[]string)(l))
}

// SocialHandles 平台 -> 账号，JSONB 对象。
type SocialHandles map[string]string

func (s SocialHandles) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *SocialHandles) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, (*map[string]string)(s))
}

// pgx 可能返回 []byte 或 string
func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("failed to unmarshal JSONB value")
	}
}
