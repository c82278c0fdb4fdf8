package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidateID validates a person or partnership identifier for safety and
// correctness before it reaches storage keys, cache keys or rendered
// output.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - No null bytes
//   - Maximum length of 256 characters
//
// Structural rules (uniqueness, references) are checked by the graph
// validator, not here.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "id too long (max 256 characters)")
	}

	for _, r := range id {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id contains invalid control characters")
		}
	}

	return nil
}

// ValidateTreeID validates a stored-tree identifier. Tree ids are UUIDs
// assigned by the server at creation time; anything else is rejected
// before it reaches the store.
func ValidateTreeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTreeID, "tree id cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return New(ErrCodeInvalidTreeID, "tree id must be a UUID: %q", id)
	}

	return nil
}

// ValidatePath validates a user-supplied relative file path for safety.
// It prevents path traversal and ensures reasonable path length.
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

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
