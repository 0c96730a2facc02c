package service

import (
	"bytes"
	"encoding/json"
	"time"
)

// Field distinguishes an absent JSON key from an explicit null, so partial
// updates can clear optional columns.
type Field[T any] struct {
	Set   bool
	Value *T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(data, []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// Some builds a set, non-null Field.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// clock supplies "now" in the configured zone; tests replace now.
type clock struct {
	now func() time.Time
	loc *time.Location
}

func newClock(loc *time.Location) clock {
	if loc == nil {
		loc = time.Local
	}
	return clock{now: time.Now, loc: loc}
}

func (c clock) Now() time.Time {
	return c.now().In(c.loc)
}

func ptr[T any](v T) *T {
	return &v
}
