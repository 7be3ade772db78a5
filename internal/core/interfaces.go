package core

import "github.com/dkeye/Board/internal/domain"

// Frame is a single outbound wire message, already encoded.
type Frame []byte

// SessionID identifies one live connection.
type SessionID string

// SignalConnection abstracts the messaging transport.
// Owned by the adapter; the adapter must Close() it.
// The liveness flag lives here because it belongs to the transport,
// not to the user: the monitor clears it, the pong handler sets it.
type SignalConnection interface {
	TrySend(Frame) error
	Ping() error
	Alive() bool
	SetAlive(bool)
	Close()
}

// Member pairs an authenticated user with its transport endpoint.
// This is what a room stores and fans out to.
type Member struct {
	User *domain.User
	Conn SignalConnection
}

// ParticipantDTO is a read-only member view for wire payloads.
type ParticipantDTO struct {
	ID domain.UserID `json:"id"`
}

// PublishResult reports delivery stats and dead peers to the caller.
// A failed send never fails the broadcast; the dropped peers are
// handed back so the caller can schedule their teardown.
type PublishResult struct {
	SentTo  int
	Dropped []SessionID
}

// RoomService is the core-facing API of a room. It owns the membership
// set and the shape document but never closes transport resources.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	Participants() []ParticipantDTO

	Shapes() domain.ShapeDocument
	ReplaceShapes(domain.ShapeDocument)

	AddMember(sid SessionID, m Member)
	// RemoveMember reports how many members remain, so the caller can
	// decide whether the room should be destroyed.
	RemoveMember(sid SessionID) int
	// Broadcast sends data to every member except from; an empty from
	// excludes nobody.
	Broadcast(from SessionID, data Frame) PublishResult
}

type RoomInfo struct {
	ID           domain.RoomID   `json:"id"`
	Name         domain.RoomName `json:"name"`
	Participants int             `json:"participants"`
}

// RoomStore maps generated room identifiers to live rooms.
type RoomStore interface {
	Create(name domain.RoomName) RoomService
	Get(id domain.RoomID) (RoomService, bool)
	Remove(id domain.RoomID)
	List() []RoomInfo
}
