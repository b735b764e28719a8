package dto

import (
	"encoding/json"
	"time"
)

// OptionalTime tells an omitted JSON field apart from an explicit null.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

// Apply returns the new value when the field was sent, otherwise current.
func (o OptionalTime) Apply(current *time.Time) *time.Time {
	if !o.Set {
		return current
	}
	return o.Value
}
