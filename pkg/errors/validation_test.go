package errors

import (
	"strings"
	"testing"
)

func TestValidateBoardText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "..AA..\n..BB..\n", false},
		{"valid crlf", "AA.\r\nBB.\r\n", false},
		{"valid tabs", "AA\t.\n", false},

		{"empty", "", true},
		{"whitespace only", " \n\t\n", true},
		{"too long", strings.Repeat("A", MaxBoardBytes+1), true},
		{"null byte", "AA\x00.", true},
		{"control char", "AA\x07.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBoardText(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBoardText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidBoard) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidBoard)
			}
		})
	}
}

func TestValidateLimits(t *testing.T) {
	tests := []struct {
		name      string
		maxStates int
		maxDepth  int
		maxNodes  int
		wantErr   bool
	}{
		{"valid", 10000, 8, 500, false},
		{"zero depth", 1, 0, 1, false},
		{"zero states", 0, 8, 500, true},
		{"too many states", MaxStatesLimit + 1, 8, 500, true},
		{"negative depth", 100, -1, 500, true},
		{"zero nodes", 100, 8, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLimits(tt.maxStates, tt.maxDepth, tt.maxNodes)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLimits() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSessionID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "3f1c2b8e-3a54-4c0c-9a5e-0f2a1f1a7b11", false},
		{"simple", "walk-1", false},

		{"empty", "", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"traversal", "..", true},
		{"space", "a b", true},
		{"too long", strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessionID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSessionID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
