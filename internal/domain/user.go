// Package domain contains entity without logic, just meta-data
package domain

import (
	"encoding/json"
	"errors"
)

const MaxUserIDLen = 64

var ErrUserIDEmpty = errors.New("user id empty")

type UserID string

// User is the authenticated identity bound to a connection.
// Profile is whatever the identity service returned; the server
// never interprets it, only echoes it back to the client.
type User struct {
	ID      UserID          `json:"id"`
	Profile json.RawMessage `json:"profile,omitempty"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(id string, profile json.RawMessage) (*User, error) {
	if len(id) == 0 {
		return nil, ErrUserIDEmpty
	}
	if len(id) > MaxUserIDLen {
		id = id[:MaxUserIDLen]
	}
	return &User{ID: UserID(id), Profile: profile}, nil
}
