package analytics

import (
	"errors"
	"fmt"
)

// ErrNoCredential indicates no API token is configured. It is returned
// before any network activity; run `finsight setup` to fix it.
var ErrNoCredential = errors.New("analytics: no API token configured")

// StatusError is returned for any non-2xx response from the analytics API.
type StatusError struct {
	Code   int    // HTTP status code, e.g. 502
	Status string // full status line, e.g. "502 Bad Gateway"
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return "analytics: server returned " + e.Status
	}
	return fmt.Sprintf("analytics: server returned status %d", e.Code)
}
