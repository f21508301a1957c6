package noise

import (
	"errors"
	"fmt"
	"strings"
)

// Type selects the noise color.
type Type int

const (
	White Type = iota
	Blue
	Violet
	Brown
)

// ErrUnknownType is returned when parsing an unrecognised color name.
var ErrUnknownType = errors.New("noise: unknown type")

var typeNames = [...]string{
	White:  "white",
	Blue:   "blue",
	Violet: "violet",
	Brown:  "brown",
}

// Types lists every supported color in declaration order.
func Types() []Type {
	return []Type{White, Blue, Violet, Brown}
}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t names a supported color.
func (t Type) Valid() bool {
	return t >= White && t <= Brown
}

// ParseType converts a color name (case-insensitive) to a Type.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return White, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// MarshalText encodes t as its name.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	return []byte(typeNames[t]), nil
}

// UnmarshalText decodes a color name.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
