package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringMap is a string-keyed map stored as a single JSON text column.
// Legalities, URI bundles and similar read-mostly metadata are never queried
// relationally, so they stay opaque at the SQL level but typed in Go.
type StringMap map[string]string

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *StringMap) Scan(value interface{}) error {
	return scanJSON(value, m, "{}")
}

// PriceMap maps a price kind (usd, usd_foil, eur, tix, ...) to its value.
// Absent prices come through the catalog as JSON null, hence the pointer values.
type PriceMap map[string]*string

func (m PriceMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *PriceMap) Scan(value interface{}) error {
	return scanJSON(value, m, "{}")
}

// StringSlice is a list of strings stored as a JSON array column.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringSlice) Scan(value interface{}) error {
	return scanJSON(value, s, "[]")
}

func scanJSON(value interface{}, dest interface{}, empty string) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		raw = []byte(empty)
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
	if len(raw) == 0 {
		raw = []byte(empty)
	}
	return json.Unmarshal(raw, dest)
}
