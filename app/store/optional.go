package store

import (
	"encoding/json"
	"fmt"
)

// Optional is a JSON field wrapper telling apart three states: the key was
// absent (Set=false), the key was null (Set=true, Null=true) or the key had a value.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some makes an Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null makes an Optional explicitly set to null
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Present reports whether a non-null value was supplied
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

// Ptr returns a pointer to the value, nil if absent or null
func (o Optional[T]) Ptr() *T {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

// UnmarshalJSON implements json.Unmarshaler. It is called only for keys present
// in the payload, including explicit nulls.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return fmt.Errorf("invalid value %s: %w", string(data), err)
	}
	return nil
}

// MarshalJSON implements json.Marshaler, absent and null both render as null
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// JSONSchemaAlias makes schema reflection describe Optional[T] as plain T
func (o Optional[T]) JSONSchemaAlias() any {
	var v T
	return v
}
