package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func newTestStore(t *testing.T) (*Store, *MemoryScope, *MemoryScope) {
	t.Helper()
	durable := NewMemoryScope()
	ephemeral := NewMemoryScope()
	store, err := NewStore(Config{Durable: durable, Ephemeral: ephemeral})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store, durable, ephemeral
}

func TestNewStoreRequiresScopes(t *testing.T) {
	t.Parallel()

	if _, err := NewStore(Config{Ephemeral: NewMemoryScope()}); err == nil {
		t.Fatal("expected error without durable scope")
	}
	if _, err := NewStore(Config{Durable: NewMemoryScope()}); err == nil {
		t.Fatal("expected error without ephemeral scope")
	}
}

func TestNewStoreDefaultsKey(t *testing.T) {
	t.Parallel()

	store, _, _ := newTestStore(t)
	if store.Key() != DefaultKey {
		t.Fatalf("Key() = %q, want %q", store.Key(), DefaultKey)
	}
}

func TestSaveWritesExactlyOneScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		persist       bool
		wantDurable   int
		wantEphemeral int
	}{
		{name: "remember", persist: true, wantDurable: 1},
		{name: "session only", persist: false, wantEphemeral: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, durable, ephemeral := newTestStore(t)
			if err := store.Save(context.Background(), json.RawMessage(`{"id":1}`), tc.persist); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if durable.Len() != tc.wantDurable || ephemeral.Len() != tc.wantEphemeral {
				t.Fatalf("durable=%d ephemeral=%d, want %d/%d", durable.Len(), ephemeral.Len(), tc.wantDurable, tc.wantEphemeral)
			}
		})
	}
}

func TestSaveNilUserStoresNull(t *testing.T) {
	t.Parallel()

	store, _, ephemeral := newTestStore(t)
	if err := store.Save(context.Background(), nil, false); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	value, ok, _ := ephemeral.Get(context.Background(), DefaultKey)
	if !ok || value != "null" {
		t.Fatalf("stored = %q, %v", value, ok)
	}
}

func TestSaveRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	store, _, _ := newTestStore(t)
	if err := store.Save(context.Background(), json.RawMessage(`{oops`), true); err == nil {
		t.Fatal("expected error")
	}
}

func TestCurrentUserPrefersDurable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _, _ := newTestStore(t)
	if err := store.Save(ctx, json.RawMessage(`{"id":2}`), false); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, json.RawMessage(`{"id":1}`), true); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if string(got) != `{"id":1}` {
		t.Fatalf("CurrentUser() = %s, want durable user", got)
	}
}

func TestCurrentUserFallsBackToEphemeral(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _, _ := newTestStore(t)
	_ = store.Save(ctx, json.RawMessage(`{"id":2}`), false)

	got, err := store.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if string(got) != `{"id":2}` {
		t.Fatalf("CurrentUser() = %s", got)
	}
	if !store.IsLoggedIn(ctx) {
		t.Fatal("expected logged in")
	}
}

func TestCurrentUserEmpty(t *testing.T) {
	t.Parallel()

	store, _, _ := newTestStore(t)
	got, err := store.CurrentUser(context.Background())
	if err != nil || got != nil {
		t.Fatalf("CurrentUser() = %s, %v; want nil, nil", got, err)
	}
	if store.IsLoggedIn(context.Background()) {
		t.Fatal("expected logged out")
	}
}

func TestIsLoggedInIgnoresEmptyEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, durable, _ := newTestStore(t)
	_ = durable.Set(ctx, DefaultKey, "")
	if store.IsLoggedIn(ctx) {
		t.Fatal("expected empty entry to count as logged out")
	}
}

func TestClearRemovesBothScopesAndIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, durable, ephemeral := newTestStore(t)
	_ = store.Save(ctx, json.RawMessage(`{"id":1}`), true)
	_ = store.Save(ctx, json.RawMessage(`{"id":1}`), false)

	for i := 0; i < 2; i++ {
		if err := store.Clear(ctx); err != nil {
			t.Fatalf("Clear() #%d error = %v", i, err)
		}
		if durable.Len() != 0 || ephemeral.Len() != 0 {
			t.Fatalf("scopes not cleared: durable=%d ephemeral=%d", durable.Len(), ephemeral.Len())
		}
	}
}

func TestClearAttemptsBothScopesOnError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ephemeral := NewMemoryScope()
	store, err := NewStore(Config{Durable: failingScope{err: errors.New("disk full")}, Ephemeral: ephemeral})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	_ = ephemeral.Set(ctx, DefaultKey, `{"id":1}`)

	if err := store.Clear(ctx); err == nil {
		t.Fatal("expected error from failing durable scope")
	}
	if ephemeral.Len() != 0 {
		t.Fatal("expected ephemeral scope cleared despite durable failure")
	}
}

func TestDecodeUser(t *testing.T) {
	t.Parallel()

	u, ok := DecodeUser(json.RawMessage(`{"id":7,"firstName":"Noa","email":"noa@example.com"}`))
	if !ok {
		t.Fatal("expected decode")
	}
	if u.DisplayName() != "Noa" || string(u.ID) != "7" {
		t.Fatalf("user = %+v", u)
	}

	u, ok = DecodeUser(json.RawMessage(`{"email":"x@y.io"}`))
	if !ok || u.DisplayName() != "x@y.io" {
		t.Fatalf("fallback display = %q", u.DisplayName())
	}

	for _, raw := range []string{"", "null", "[1]", "{bad"} {
		if _, ok := DecodeUser(json.RawMessage(raw)); ok {
			t.Fatalf("DecodeUser(%q) ok, want false", raw)
		}
	}
}

type failingScope struct {
	err error
}

func (f failingScope) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingScope) Set(context.Context, string, string) error         { return f.err }
func (f failingScope) Delete(context.Context, string) error              { return f.err }
