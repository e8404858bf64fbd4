package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxItemIDLength bounds item identities stored in scenes and the position store.
const maxItemIDLength = 512

// ValidateItemID validates an item identity.
// Identities are opaque to the engine but end up as storage keys and SVG ids,
// so control characters and empty values are rejected.
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "item id cannot be empty")
	}

	if len(id) > maxItemIDLength {
		return New(ErrCodeInvalidInput, "item id too long (max %d characters)", maxItemIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "item id contains invalid control characters")
		}
	}

	return nil
}

// ValidateSize validates a width/height pair such as a footprint or cell size.
// Both dimensions must be finite and strictly positive.
func ValidateSize(what string, width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "%s must be finite, got %gx%g", what, width, height)
		}
	}
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %gx%g", what, width, height)
	}
	return nil
}

// ValidateCanvas validates a canvas size. Unlike ValidateSize it accepts
// zero, which callers treat as a canvas too small to lay out.
func ValidateCanvas(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "canvas size must be finite, got %gx%g", width, height)
		}
	}
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidInput, "canvas size cannot be negative, got %gx%g", width, height)
	}
	return nil
}

// ValidatePath validates a file path given on the command line or in config.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "path contains null bytes")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
