package utils

import "strings"

// NewNullString is a helper for string pointers, returning nil if the trimmed string is empty.
// Useful for optional filters that must be skipped when not provided.
func NewNullString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
