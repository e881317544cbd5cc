package middleware

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

var (
	historyIDPattern = regexp.MustCompile(`^[0-9]{1,20}$`)
	mediaIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
)

// ValidateSessionID accepts canonical UUIDs only.
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid session ID format")
	}
	return nil
}

// ValidateHistoryID checks history ids are millisecond timestamps.
func ValidateHistoryID(id string) error {
	if !historyIDPattern.MatchString(id) {
		return fmt.Errorf("invalid history ID format")
	}
	return nil
}

func ValidateMediaID(id string) error {
	if !mediaIDPattern.MatchString(id) {
		return fmt.Errorf("invalid media ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// MaxBodyBytes caps request bodies. Media arrives inline as data URIs, so
// the limit is generous.
func MaxBodyBytes(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
