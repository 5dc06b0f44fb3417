package session

import (
	"encoding/json"
	"strings"
)

// User is the subset of the backend user object that views display. The
// stored object itself stays opaque.
type User struct {
	ID        json.RawMessage `json:"id,omitempty"`
	FirstName string          `json:"firstName,omitempty"`
	LastName  string          `json:"lastName,omitempty"`
	Email     string          `json:"email,omitempty"`
	Phone     string          `json:"phone,omitempty"`
}

// DisplayName returns the first name, falling back to the email.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName); name != "" {
		return name
	}
	return strings.TrimSpace(u.Email)
}

// DecodeUser extracts display fields from raw. It reports false when raw is
// empty, null, or not a JSON object.
func DecodeUser(raw json.RawMessage) (User, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return User{}, false
	}
	var u User
	if err := json.Unmarshal([]byte(trimmed), &u); err != nil {
		return User{}, false
	}
	return u, true
}
