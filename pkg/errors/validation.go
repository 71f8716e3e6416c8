package errors

import (
	"strings"
	"unicode"
)

// MaxBoardBytes bounds the size of board text accepted from users.
const MaxBoardBytes = 64 * 1024

// MaxStatesLimit is the largest exploration budget accepted from untrusted input.
const MaxStatesLimit = 5_000_000

// ValidateBoardText validates raw board text before it reaches the parser.
//
// The validation rules are intentionally conservative:
//   - No empty (all-whitespace) boards
//   - Maximum length of MaxBoardBytes
//   - No control characters other than newlines, carriage returns and tabs
//
// Structural checks (vehicle shapes, overlaps) are left to the board parser.
func ValidateBoardText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidBoard, "board text cannot be empty")
	}

	if len(text) > MaxBoardBytes {
		return New(ErrCodeInvalidBoard, "board text too long (max %d bytes)", MaxBoardBytes)
	}

	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidBoard, "board text contains invalid control characters")
		}
	}

	return nil
}

// ValidateLimits checks exploration and selection budgets.
// maxStates and maxNodes must be positive; maxDepth must be non-negative.
func ValidateLimits(maxStates, maxDepth, maxNodes int) error {
	if maxStates < 1 {
		return New(ErrCodeInvalidInput, "max states must be positive, got %d", maxStates)
	}
	if maxStates > MaxStatesLimit {
		return New(ErrCodeInvalidInput, "max states too large (max %d)", MaxStatesLimit)
	}
	if maxDepth < 0 {
		return New(ErrCodeInvalidInput, "max depth must not be negative, got %d", maxDepth)
	}
	if maxNodes < 1 {
		return New(ErrCodeInvalidInput, "max nodes must be positive, got %d", maxNodes)
	}
	return nil
}

// ValidateSessionID validates a walk session identifier.
// Session IDs are used as file names and store keys, so path characters are rejected.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session ID cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "session ID too long (max 128 characters)")
	}
	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "session ID contains invalid characters")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "session ID contains invalid characters")
		}
	}
	return nil
}
