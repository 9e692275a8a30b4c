package errors

import (
	"strings"
	"unicode"

	"github.com/easelhq/easel/pkg/canvas"
)

// Resolution limits. Anything outside this range is either a typo or a
// request no renderer downstream will accept.
const (
	MinDimension = 16
	MaxDimension = 8192
)

// ValidateBrief validates a creative brief before it is sent upstream.
//
// The validation rules are intentionally conservative:
//   - No empty briefs
//   - No control characters (newlines and tabs are fine)
//   - Maximum length of 4000 characters
func ValidateBrief(brief string) error {
	if strings.TrimSpace(brief) == "" {
		return New(ErrCodeInvalidBrief, "brief cannot be empty")
	}

	if len(brief) > 4000 {
		return New(ErrCodeInvalidBrief, "brief too long (max 4000 characters)")
	}

	for _, r := range brief {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return New(ErrCodeInvalidBrief, "brief contains invalid control characters")
		}
	}

	return nil
}

// ValidateResolution validates target canvas dimensions.
func ValidateResolution(width, height int) error {
	if width < MinDimension || width > MaxDimension {
		return New(ErrCodeInvalidResolution, "width %d out of range [%d, %d]", width, MinDimension, MaxDimension)
	}
	if height < MinDimension || height > MaxDimension {
		return New(ErrCodeInvalidResolution, "height %d out of range [%d, %d]", height, MinDimension, MaxDimension)
	}
	return nil
}

// ValidateColor validates a CSS color string in the forms the canvas
// model accepts (#RRGGBB hex, rgb(), rgba()).
func ValidateColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !canvas.ValidColor(color) {
		return New(ErrCodeInvalidColor, "unrecognized color %q", color)
	}
	return nil
}

// ValidatePath validates a file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
