package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxCells bounds the size of a generated grid. The HTTP API and the CLI
// both refuse anything larger.
const MaxCells = 1 << 20

// ValidateDimensions checks that a width×height grid is non-empty and holds
// at most maxCells cells. A maxCells of zero means MaxCells.
func ValidateDimensions(width, height, maxCells int) error {
	if maxCells <= 0 {
		maxCells = MaxCells
	}
	if width < 1 || height < 1 {
		return New(ErrCodeInvalidInput, "grid dimensions must be positive, got %dx%d", width, height)
	}
	if width > maxCells/height {
		return New(ErrCodeInvalidInput, "grid too large: %dx%d (max %d cells)", width, height, maxCells)
	}
	return nil
}

// ValidateRate checks a steps-per-second rate.
func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return New(ErrCodeInvalidInput, "rate must be a positive number of steps per second")
	}
	if rate > 10000 {
		return New(ErrCodeInvalidInput, "rate too high (max 10000 steps per second)")
	}
	return nil
}

// ValidatePath validates an output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
