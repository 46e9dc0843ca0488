package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ParseID validates a record id taken from a path or query and returns it in
// canonical lower-case form.
func ParseID(s string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id.String(), nil
}
