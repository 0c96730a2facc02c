package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is an ordered list of strings stored as a JSON array in a TEXT column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return jsonValue(l)
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

// IntList is an ordered list of ints stored as a JSON array in a TEXT column.
type IntList []int

func (l IntList) Value() (driver.Value, error) {
	return jsonValue(l)
}

func (l *IntList) Scan(src any) error {
	return scanJSON(src, l)
}

func jsonValue[T any](list []T) (driver.Value, error) {
	if list == nil {
		return "[]", nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSON[T any](src any, dst *T) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into JSON list", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

// Pagination is the offset/limit window applied to list queries.
type Pagination struct {
	Limit  int
	Offset int
}

// Page is the response shape of every list endpoint.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewPage never returns a nil Items slice, so JSON always shows [].
func NewPage[T any](items []T, total int, p Pagination) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Limit: p.Limit, Offset: p.Offset}
}
