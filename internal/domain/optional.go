package domain

import "encoding/json"

type fieldState uint8

const (
	stateUnknown fieldState = iota
	stateNull
	stateValue
)

// Optional is a three-state enrichment field: unknown (never observed),
// explicitly null (observed absent), or a value. Merge precedence over
// Optionals is a total function; callers never test raw pointer presence.
type Optional[T any] struct {
	state fieldState
	value T
}

// Some returns an Optional carrying v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{state: stateValue, value: v}
}

// Null returns an Optional that was explicitly observed as absent.
func Null[T any]() Optional[T] {
	return Optional[T]{state: stateNull}
}

// IsZero reports whether the field was never observed. It makes the
// `omitzero` JSON tag drop unknown fields from the persisted document.
func (o Optional[T]) IsZero() bool { return o.state == stateUnknown }

// IsNull reports whether the field was explicitly observed as absent.
func (o Optional[T]) IsNull() bool { return o.state == stateNull }

// HasValue reports whether the field carries a value.
func (o Optional[T]) HasValue() bool { return o.state == stateValue }

// Get returns the value and whether one is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.state == stateValue
}

// MustValue returns the value, or the zero value when none is present.
func (o Optional[T]) MustValue() T { return o.value }

// Overlay applies a fresh observation on top of a previously persisted one.
// A fresh value always wins; a fresh null or unknown never erases prev.
// This is the enrichment monotonicity rule.
func Overlay[T any](prev, fresh Optional[T]) Optional[T] {
	if fresh.state == stateValue {
		return fresh
	}
	if prev.state == stateUnknown {
		return fresh
	}
	return prev
}

// Map transforms the carried value, preserving null/unknown states.
func Map[T, U any](o Optional[T], f func(T) U) Optional[U] {
	switch o.state {
	case stateValue:
		return Some(f(o.value))
	case stateNull:
		return Null[U]()
	default:
		return Optional[U]{}
	}
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.state != stateValue {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		var zero T
		o.state = stateNull
		o.value = zero
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.state = stateValue
	o.value = v
	return nil
}
