// Package orch sequences session-state mutations across the registry
// and the room store. Controllers decode payloads and send replies;
// everything that moves a connection between states happens here.
package orch

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/Board/internal/app"
	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
	"github.com/dkeye/Board/internal/identity"
)

var ErrNotInitialized = errors.New("session not initialized")

type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomStore
	Identity identity.Store
}

// InitUser resolves the user profile and attaches the session to the
// connection. The lookup inherits the connection context, so it is
// cancelled when the connection dies, and nothing else bounds it.
func (o *Orchestrator) InitUser(ctx context.Context, sid core.SessionID, userID string) (*domain.User, error) {
	profile, err := o.Identity.Lookup(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile lookup: %w", err)
	}
	user, err := domain.NewUser(userID, profile)
	if err != nil {
		return nil, err
	}
	if !o.Registry.Authenticate(sid, user) {
		return nil, errors.New("connection gone during lookup")
	}
	return user, nil
}
