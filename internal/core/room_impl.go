package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Board/internal/domain"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room *domain.Room

	mu     sync.RWMutex
	bySID  map[SessionID]Member
	shapes domain.ShapeDocument
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{
		room:   room,
		bySID:  make(map[SessionID]Member),
		shapes: domain.NewShapeDocument(),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySID)
}

func (r *roomImpl) Shapes() domain.ShapeDocument {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.shapes
}

// ReplaceShapes swaps the whole document; no field-level merging.
func (r *roomImpl) ReplaceShapes(doc domain.ShapeDocument) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shapes = doc
}

func (r *roomImpl) AddMember(sid SessionID, m Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySID[sid] = m
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Str("user", string(m.User.ID)).Msg("member added")
}

func (r *roomImpl) RemoveMember(sid SessionID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bySID, sid)
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Msg("member removed")
	return len(r.bySID)
}

func (r *roomImpl) Broadcast(from SessionID, data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for sid, m := range r.bySID {
		if from != "" && sid == from {
			continue
		}
		if err := m.Conn.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *roomImpl) Participants() []ParticipantDTO {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ParticipantDTO, 0, len(r.bySID))
	for _, m := range r.bySID {
		out = append(out, ParticipantDTO{ID: m.User.ID})
	}
	return out
}
