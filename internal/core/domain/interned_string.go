package domain

import "unique"

// InternedString wraps a unique.Handle[string]. Output and input names repeat
// heavily across the task list and the pending set, so interning keeps the
// memory footprint flat and makes equality a pointer compare.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s and returns a handle to it.
func NewInternedString(s string) InternedString {
	return InternedString{h: unique.Make(s)}
}

// String returns the underlying string. The zero value renders as "".
func (is InternedString) String() string {
	var zero unique.Handle[string]
	if is.h == zero {
		return ""
	}
	return is.h.Value()
}

// MarshalText implements encoding.TextMarshaler.
func (is InternedString) MarshalText() ([]byte, error) {
	return []byte(is.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (is *InternedString) UnmarshalText(text []byte) error {
	is.h = unique.Make(string(text))
	return nil
}
