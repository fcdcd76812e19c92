package model

import "encoding/json"

// Optional is a three-state field value for update operations: left
// unspecified, explicitly cleared (null), or set to a value. "Not
// provided" and "explicitly cleared" are different write semantics and
// must never be conflated.
type Optional[T any] struct {
	set   bool
	null  bool
	value T
}

// Some returns an Optional carrying a value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{set: true, value: v}
}

// Null returns an Optional representing an explicit clear.
func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

// Unset returns the zero Optional: the field was not provided.
func Unset[T any]() Optional[T] {
	return Optional[T]{}
}

// Specified reports whether the field was provided at all.
func (o Optional[T]) Specified() bool { return o.set }

// IsNull reports whether the field was provided as an explicit clear.
func (o Optional[T]) IsNull() bool { return o.set && o.null }

// Value returns the carried value and whether one is present.
func (o Optional[T]) Value() (T, bool) {
	if !o.set || o.null {
		var zero T
		return zero, false
	}
	return o.value, true
}

// UnmarshalJSON distinguishes JSON null from a value. Absent keys leave
// the Optional unspecified, which is exactly the zero value.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if string(data) == "null" {
		o.null = true
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}

// MarshalJSON renders null for cleared or unspecified values.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
