package ir

import (
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface for the values that can be canonically encoded.
// Only Null, String, Int, Bool, Array and Object implement it. There is no
// float type; counts are always integral.
type Value interface {
	value()
}

// Null is a JSON null. Unlike content-addressed identifiers, digests must be
// able to express a missing count or continent.
type Null struct{}

func (Null) value() {}

// String is a string value. It is NFC-normalized when encoded.
type String string

func (String) value() {}

// Int is an integer value.
type Int int64

func (Int) value() {}

// Bool is a boolean value.
type Bool bool

func (Bool) value() {}

// Array is an ordered list of values.
type Array []Value

func (Array) value() {}

// Object maps string keys to values. Use SortedKeys for deterministic
// iteration.
type Object map[string]Value

func (Object) value() {}

// OptionalInt returns Int(*n), or Null when n is nil.
func OptionalInt(n *int64) Value {
	if n == nil {
		return Null{}
	}
	return Int(*n)
}

// OptionalString returns String(s), or Null when s is empty.
func OptionalString(s string) Value {
	if s == "" {
		return Null{}
	}
	return String(s)
}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
// Go's native string order is UTF-8 and differs for astral characters.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// ToValue converts a record to its canonical value.
func (r Record) ToValue() Value {
	return Object{
		"year":         Int(r.Year),
		"country":      String(r.Country),
		"issued_count": OptionalInt(r.IssuedCount),
		"continent":    OptionalString(r.Continent),
	}
}

// ToValue converts a by-continent row to its canonical value.
func (t ContinentYearTotal) ToValue() Value {
	return Object{
		"year":        Int(t.Year),
		"continent":   String(t.Continent),
		"visa_issued": Int(t.VisaIssued),
	}
}

// ToValue converts a top-countries row to its canonical value.
func (t CountryTotal) ToValue() Value {
	return Object{
		"country":     String(t.Country),
		"visa_issued": Int(t.VisaIssued),
	}
}
