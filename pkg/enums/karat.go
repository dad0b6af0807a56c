package enums

import "fmt"

// Karat identifies the gold purity grade selected for a line item.
type Karat string

const (
	Karat22 Karat = "22kt"
	Karat18 Karat = "18kt"
	Karat14 Karat = "14kt"
	Karat9  Karat = "9kt"
)

var validKarats = []Karat{
	Karat22,
	Karat18,
	Karat14,
	Karat9,
}

// String implements fmt.Stringer.
func (k Karat) String() string {
	return string(k)
}

// IsValid reports whether the value is a known Karat.
func (k Karat) IsValid() bool {
	for _, candidate := range validKarats {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseKarat converts raw input into a Karat.
func ParseKarat(value string) (Karat, error) {
	for _, candidate := range validKarats {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid karat %q", value)
}
