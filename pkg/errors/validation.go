package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxIDLength bounds item and cell identifiers.
const maxIDLength = 256

// ValidateCellID validates an item or cell identifier.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No leading or trailing whitespace
//   - Maximum length of 256 characters
//
// Identifiers end up in DOT output and JSON snapshots, so anything that
// would need escaping beyond simple quoting is rejected here.
func ValidateCellID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "cell id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "cell id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "cell id contains invalid control characters")
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidInput, "cell id has surrounding whitespace: %q", id)
	}

	return nil
}

// ValidateSize validates a target weight. Sizes must be finite and strictly positive.
func ValidateSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) {
		return New(ErrCodeInvalidInput, "size must be finite, got %g", size)
	}
	if size <= 0 {
		return New(ErrCodeInvalidInput, "size must be positive, got %g", size)
	}
	return nil
}

// ValidateDimension validates a width or depth of a layout area.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be a positive finite number, got %g", name, v)
	}
	return nil
}
