package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// NewID returns a fresh UUID string for entity primary keys.
func NewID() string {
	return uuid.NewString()
}

// NewBookingReference builds the human-facing booking reference,
// "BK-<epoch-millis>-<hex>". The random suffix keeps references unique even
// for bookings created in the same millisecond.
func NewBookingReference() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failure is effectively fatal elsewhere; fall back to
		// the uuid entropy pool rather than a bare timestamp.
		return fmt.Sprintf("BK-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	}
	return fmt.Sprintf("BK-%d-%s", time.Now().UnixMilli(), hex.EncodeToString(b))
}
