package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateDimension checks that a physical measurement is positive and finite.
// The layout engine assumes valid dimensions, so callers validate here first.
func ValidateDimension(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", field, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %v", field, v)
	}
	return nil
}

// ValidateNonNegative checks that a measurement is zero or positive and finite.
func ValidateNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", field, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must not be negative, got %v", field, v)
	}
	return nil
}

// ValidateZoneName validates a zone name for display and lookup.
//
// The validation rules:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateZoneName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidSite, "zone name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidSite, "zone name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSite, "zone name contains invalid control characters")
		}
	}

	return nil
}

// ValidatePlanID validates a plan identifier received from a client.
// Plan IDs are UUIDs; anything with path separators or control characters
// is rejected before it reaches a store.
func ValidatePlanID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "plan id cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "plan id too long (max 64 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "plan id contains invalid characters")
		}
	}

	if strings.ContainsAny(id, "/\\.") {
		return New(ErrCodeInvalidInput, "plan id contains invalid characters")
	}

	return nil
}

// ValidateColor validates a "#rrggbb" color string.
func ValidateColor(color string) error {
	if len(color) != 7 || color[0] != '#' {
		return New(ErrCodeInvalidSite, "color must have the form #rrggbb, got %q", color)
	}
	for _, r := range color[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return New(ErrCodeInvalidSite, "color must have the form #rrggbb, got %q", color)
		}
	}
	return nil
}
