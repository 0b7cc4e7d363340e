// Package optional distinguishes "key absent" from "key present with null"
// when decoding PATCH bodies.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value records whether a JSON key was supplied and, if so, its value.
// A supplied null leaves Ptr nil with Set true.
type Value[T any] struct {
	Ptr *T
	Set bool
}

// Of returns a supplied, non-null Value.
func Of[T any](v T) Value[T] {
	return Value[T]{Ptr: &v, Set: true}
}

// Null returns a supplied null Value.
func Null[T any]() Value[T] {
	return Value[T]{Set: true}
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.Ptr = nil
		return nil
	}
	var t T
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	v.Ptr = &t
	return nil
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if v.Ptr == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*v.Ptr)
}

// IsNull reports a supplied null.
func (v Value[T]) IsNull() bool {
	return v.Set && v.Ptr == nil
}
