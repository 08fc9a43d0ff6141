package model

import (
	"encoding/json"
	"time"
)

// DateLayout is the bare date accepted wherever a request carries an instant.
// A bare date means midnight UTC.
const DateLayout = "2006-01-02"

// Optional is a request field that can be absent, explicitly null, or set.
// Set is true whenever the key was present in the payload.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a present Optional holding null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if t, ok := any(&v).(*time.Time); ok {
		if d, err := time.Parse(`"`+DateLayout+`"`, string(data)); err == nil {
			*t = d
			o.Value = &v
			return nil
		}
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Apply overwrites dst when the field was present.
func (o Optional[T]) Apply(dst **T) {
	if o.Set {
		*dst = o.Value
	}
}
