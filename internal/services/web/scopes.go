package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/louisbranch/easyvents/internal/auth/session"
	"github.com/louisbranch/easyvents/internal/auth/storage/sqlite"
	"github.com/louisbranch/easyvents/internal/services/web/platform/sessioncookie"
)

// ScopeStore hands out storage scopes keyed by owner.
type ScopeStore interface {
	Scope(kind sqlite.Kind, owner string) session.Scope
}

// ownerScope is a session.Scope whose owner id lives in a signed cookie. The
// owner is minted on the first write, so anonymous visitors never touch
// storage.
type ownerScope struct {
	store ScopeStore
	kind  sqlite.Kind
	slot  sessioncookie.Slot
	jar   sessioncookie.Jar
	w     http.ResponseWriter
	r     *http.Request
	owner string
}

func newOwnerScope(store ScopeStore, kind sqlite.Kind, slot sessioncookie.Slot, jar sessioncookie.Jar, w http.ResponseWriter, r *http.Request) *ownerScope {
	owner, _ := jar.Owner(r, slot)
	return &ownerScope{store: store, kind: kind, slot: slot, jar: jar, w: w, r: r, owner: owner}
}

func (s *ownerScope) Get(ctx context.Context, key string) (string, bool, error) {
	if s.owner == "" {
		return "", false, nil
	}
	return s.store.Scope(s.kind, s.owner).Get(ctx, key)
}

func (s *ownerScope) Set(ctx context.Context, key string, value string) error {
	if s.owner == "" {
		owner, err := s.jar.Issue(s.w, s.r, s.slot)
		if err != nil {
			return fmt.Errorf("issue %s cookie: %w", s.slot.Name, err)
		}
		s.owner = owner
	}
	return s.store.Scope(s.kind, s.owner).Set(ctx, key, value)
}

func (s *ownerScope) Delete(ctx context.Context, key string) error {
	if s.owner == "" {
		return nil
	}
	return s.store.Scope(s.kind, s.owner).Delete(ctx, key)
}
