package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrUnauthorized is returned when the access token was rejected and could
// not be refreshed. The session has already been cleared when it is returned.
var ErrUnauthorized = errors.New("backend: unauthorized")

// StatusError is returned for every non-2xx response from the backend.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: HTTP %d: %s", e.Code, http.StatusText(e.Code))
}

// Detail extracts a human-readable message from a DRF-style error body.
// It understands {"detail": "..."} and field maps like {"level": ["..."]}.
// Returns an empty string when the body carries nothing usable.
func (e *StatusError) Detail() string {
	if len(e.Body) == 0 {
		return ""
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &body); err != nil {
		return ""
	}

	if raw, ok := body["detail"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
	}

	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		var list []string
		if json.Unmarshal(body[k], &list) == nil && len(list) > 0 {
			parts = append(parts, strings.Join(list, " "))
			continue
		}
		var s string
		if json.Unmarshal(body[k], &s) == nil && s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
