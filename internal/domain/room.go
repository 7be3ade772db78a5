package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

const MaxRoomNameLen = 64

type (
	RoomName string
	RoomID   string
)

type Room struct {
	ID   RoomID
	Name RoomName
}

// NewRoomID returns a fresh 8-char hex identifier (32 bits of entropy).
// Callers that need global uniqueness must still collision-check against
// live rooms; identifiers are never derived from room names or reused.
func NewRoomID() RoomID {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is effectively unheard of; fall back to a
		// timestamp so room creation still succeeds.
		return RoomID(fmt.Sprintf("%x", time.Now().UnixNano()))
	}
	return RoomID(hex.EncodeToString(b))
}
