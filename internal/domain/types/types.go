// Package types contains common value types used across the grading engine.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

var jsonNull = []byte("null")

// Float is an optional float64. The zero value is absent.
//
// The engine reports "nothing scored yet" or "no grade yet" as an absent
// Float rather than as an error or a sentinel number.
type Float struct {
	value   float64
	present bool
}

// Some returns a present Float holding v.
func Some(v float64) Float { return Float{value: v, present: true} }

// None returns an absent Float.
func None() Float { return Float{} }

// FromPtr converts a nullable pointer into a Float.
func FromPtr(p *float64) Float {
	if p == nil {
		return None()
	}
	return Some(*p)
}

// Present reports whether f holds a value.
func (f Float) Present() bool { return f.present }

// Get returns the held value and whether it is present.
func (f Float) Get() (float64, bool) { return f.value, f.present }

// Or returns the held value, or fallback when absent.
func (f Float) Or(fallback float64) float64 {
	if !f.present {
		return fallback
	}
	return f.value
}

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (f Float) Ptr() *float64 {
	if !f.present {
		return nil
	}
	v := f.value
	return &v
}

// Map applies fn to a present value and returns the result; absent stays absent.
func (f Float) Map(fn func(float64) float64) Float {
	if !f.present {
		return f
	}
	return Some(fn(f.value))
}

// Equal reports whether two Floats hold the same state and bit-identical value.
func (f Float) Equal(o Float) bool {
	if f.present != o.present {
		return false
	}
	return !f.present || math.Float64bits(f.value) == math.Float64bits(o.value)
}

// String implements fmt.Stringer.
func (f Float) String() string {
	if !f.present {
		return "absent"
	}
	return fmt.Sprintf("%g", f.value)
}

// MarshalJSON encodes an absent value as null.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.present {
		return jsonNull, nil
	}
	if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
		return nil, fmt.Errorf("types: cannot encode %v as JSON", f.value)
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON decodes null as absent.
func (f *Float) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*f = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("types: decode float: %w", err)
	}
	*f = Some(v)
	return nil
}
