// Package adventures describes the adventure domain as the backend exposes
// it: the entity kinds of an adventure, their edit forms and request
// payloads, and the URL layout of the adventure API.
//
// Every kind comes as three shapes. The entity is what the backend returns,
// the draft is the string-typed HTML form, and the payload is what is sent
// back. XToDraft and XPayload convert between them and are pure.
package adventures

import (
	"fmt"
	"strconv"
)

// apiRoot is the prefix of every adventure endpoint.
const apiRoot = "/api/adventures/"

// Scope distinguishes templates (authored definitions) from runs (play-throughs).
type Scope string

const (
	ScopeTemplates Scope = "templates"
	ScopeRuns      Scope = "runs"
)

// ParseScope validates a scope taken from a URL.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeTemplates, ScopeRuns:
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown adventure scope %q", s)
}

// Base returns the URL of one adventure, e.g. /api/adventures/templates/5/.
func Base(scope Scope, adventureID int) string {
	return apiRoot + string(scope) + "/" + strconv.Itoa(adventureID) + "/"
}

// Endpoint returns the URL of a sub-resource of one adventure. path is a
// collection path such as "locations/" and may be empty.
func Endpoint(scope Scope, adventureID int, path string) string {
	return Base(scope, adventureID) + path
}

// Collection returns the URL of a top-level adventure collection such as
// "templates/" or "moderation/queue/".
func Collection(path string) string {
	return apiRoot + path
}
