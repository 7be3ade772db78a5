package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
)

type RoomStoreImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
}

func NewRoomStore() core.RoomStore {
	return &RoomStoreImpl{rooms: make(map[domain.RoomID]core.RoomService)}
}

// Create always succeeds: it keeps drawing fresh identifiers until one
// is unused, so an identifier can never point at two rooms.
func (s *RoomStoreImpl) Create(name domain.RoomName) core.RoomService {
	if len(name) > domain.MaxRoomNameLen {
		name = name[:domain.MaxRoomNameLen]
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := domain.NewRoomID()
	for _, exists := s.rooms[id]; exists; _, exists = s.rooms[id] {
		id = domain.NewRoomID()
	}
	room := core.NewRoomService(&domain.Room{ID: id, Name: name})
	s.rooms[id] = room
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("name", string(name)).Msg("room created")
	return room
}

func (s *RoomStoreImpl) Get(id domain.RoomID) (core.RoomService, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	return room, ok
}

func (s *RoomStoreImpl) Remove(id domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room removed")
}

// List is a point-in-time snapshot, safe to call concurrently with
// joins and leaves.
func (s *RoomStoreImpl) List() []core.RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(s.rooms))
	for id, room := range s.rooms {
		out = append(out, core.RoomInfo{
			ID:           id,
			Name:         room.Room().Name,
			Participants: room.MemberCount(),
		})
	}
	return out
}
