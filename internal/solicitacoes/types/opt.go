package types

import (
	"encoding/json"
)

// Opt holds a value that may be absent. Cells that fail to parse become an
// invalid Opt instead of an error.
type Opt[T any] struct {
	Value T
	Valid bool
}

func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Valid: true}
}

func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Or returns the value when present and fallback otherwise.
func (o Opt[T]) Or(fallback T) T {
	if !o.Valid {
		return fallback
	}
	return o.Value
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Opt[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
