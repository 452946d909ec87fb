package app

import (
	"strings"

	"github.com/google/uuid"
)

// newOrderID generates a short opaque order key, e.g. "o3f9c2a1d".
func newOrderID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "o" + hex[:8]
}
