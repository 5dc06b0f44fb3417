// Package session persists the signed-in user across two storage scopes.
//
// The durable scope outlives the browser session ("remember me"); the
// ephemeral scope lives only as long as the tab or browser session. Both hold
// the same JSON text under one key, and every write is a full overwrite.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultKey is the storage key holding the serialized user.
const DefaultKey = "easyVentsCurrentUser"

// Scope is one key/value storage area.
type Scope interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// Config wires a Store to its scopes.
type Config struct {
	Key       string
	Durable   Scope
	Ephemeral Scope
}

// Store reads and writes the current user.
type Store struct {
	key       string
	durable   Scope
	ephemeral Scope
}

// NewStore builds a Store. Both scopes are required.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Durable == nil {
		return nil, errors.New("durable scope is required")
	}
	if cfg.Ephemeral == nil {
		return nil, errors.New("ephemeral scope is required")
	}
	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		key = DefaultKey
	}
	return &Store{key: key, durable: cfg.Durable, ephemeral: cfg.Ephemeral}, nil
}

// Key returns the storage key in use.
func (s *Store) Key() string {
	return s.key
}

// Save writes user to the durable scope when persist is set, otherwise to the
// ephemeral scope. A nil user is stored as JSON null.
func (s *Store) Save(ctx context.Context, user json.RawMessage, persist bool) error {
	value := strings.TrimSpace(string(user))
	if value == "" {
		value = "null"
	}
	if !json.Valid([]byte(value)) {
		return errors.New("session user is not valid JSON")
	}
	scope := s.ephemeral
	if persist {
		scope = s.durable
	}
	if err := scope.Set(ctx, s.key, value); err != nil {
		return fmt.Errorf("save session user: %w", err)
	}
	return nil
}

// IsLoggedIn reports whether either scope holds a non-empty entry. Read
// failures count as absent.
func (s *Store) IsLoggedIn(ctx context.Context) bool {
	value, err := s.read(ctx)
	return err == nil && value != ""
}

// CurrentUser returns the stored user, preferring the durable scope. It
// returns nil when no entry exists.
func (s *Store) CurrentUser(ctx context.Context) (json.RawMessage, error) {
	value, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, nil
	}
	if !json.Valid([]byte(value)) {
		return nil, errors.New("stored session user is not valid JSON")
	}
	return json.RawMessage(value), nil
}

// Clear removes the entry from both scopes. Both deletes are attempted even
// when the first fails.
func (s *Store) Clear(ctx context.Context) error {
	durableErr := s.durable.Delete(ctx, s.key)
	ephemeralErr := s.ephemeral.Delete(ctx, s.key)
	if err := errors.Join(durableErr, ephemeralErr); err != nil {
		return fmt.Errorf("clear session user: %w", err)
	}
	return nil
}

func (s *Store) read(ctx context.Context) (string, error) {
	for _, scope := range []Scope{s.durable, s.ephemeral} {
		value, ok, err := scope.Get(ctx, s.key)
		if err != nil {
			return "", fmt.Errorf("read session user: %w", err)
		}
		if ok && value != "" {
			return value, nil
		}
	}
	return "", nil
}
