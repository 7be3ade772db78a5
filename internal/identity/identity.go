// Package identity is the client side of the external profile service.
// The server queries it once per session initialization and treats the
// returned payload as opaque.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
)

var ErrNotFound = errors.New("user not found")

type Store interface {
	Lookup(ctx context.Context, userID string) (json.RawMessage, error)
}

// HTTPStore fetches profiles from an identity service over HTTP.
// No client timeout on purpose: a stalled lookup holds only its own
// connection, and the liveness monitor reaps that connection anyway.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{baseURL: baseURL, client: &http.Client{}}
}

func (s *HTTPStore) Lookup(ctx context.Context, userID string) (json.RawMessage, error) {
	u := fmt.Sprintf("%s/users/%s", s.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", userID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read profile: %w", err)
		}
		return json.RawMessage(body), nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("lookup %s: unexpected status %d", userID, resp.StatusCode)
	}
}

// StaticStore is an in-memory profile store for dev mode and tests.
type StaticStore struct {
	mu       sync.RWMutex
	profiles map[string]json.RawMessage
}

func NewStaticStore() *StaticStore {
	return &StaticStore{profiles: make(map[string]json.RawMessage)}
}

func (s *StaticStore) Seed(userID string, profile json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = profile
}

func (s *StaticStore) Lookup(_ context.Context, userID string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}
