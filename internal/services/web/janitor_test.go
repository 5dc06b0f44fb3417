package web

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/easyvents/internal/auth/storage/sqlite"
)

type purgeCall struct {
	kind      sqlite.Kind
	olderThan time.Duration
}

type fakePurger struct {
	mu      sync.Mutex
	calls   []purgeCall
	removed map[sqlite.Kind]int64
	err     map[sqlite.Kind]error
	swept   chan struct{}
}

func (f *fakePurger) Purge(_ context.Context, kind sqlite.Kind, olderThan time.Duration) (int64, error) {
	f.mu.Lock()
	f.calls = append(f.calls, purgeCall{kind: kind, olderThan: olderThan})
	removed, err := f.removed[kind], f.err[kind]
	f.mu.Unlock()
	if f.swept != nil && kind == sqlite.KindDurable {
		select {
		case f.swept <- struct{}{}:
		default:
		}
	}
	return removed, err
}

func TestJanitorDefaults(t *testing.T) {
	t.Parallel()

	j := newJanitor(&fakePurger{}, JanitorConfig{})
	if j.cfg.Interval != time.Hour || j.cfg.EphemeralTTL != 24*time.Hour || j.cfg.DurableTTL != 400*24*time.Hour {
		t.Fatalf("cfg = %+v", j.cfg)
	}
}

func TestJanitorSweepPurgesBothKinds(t *testing.T) {
	t.Parallel()

	purger := &fakePurger{
		removed: map[sqlite.Kind]int64{sqlite.KindEphemeral: 3, sqlite.KindDurable: 1},
	}
	j := newJanitor(purger, JanitorConfig{})
	if got := j.sweep(context.Background()); got != 4 {
		t.Fatalf("sweep() = %d, want 4", got)
	}
	want := []purgeCall{
		{kind: sqlite.KindEphemeral, olderThan: 24 * time.Hour},
		{kind: sqlite.KindDurable, olderThan: 400 * 24 * time.Hour},
	}
	if len(purger.calls) != len(want) {
		t.Fatalf("calls = %+v", purger.calls)
	}
	for i := range want {
		if purger.calls[i] != want[i] {
			t.Fatalf("call[%d] = %+v, want %+v", i, purger.calls[i], want[i])
		}
	}
}

func TestJanitorSweepContinuesPastErrors(t *testing.T) {
	t.Parallel()

	purger := &fakePurger{
		removed: map[sqlite.Kind]int64{sqlite.KindDurable: 2},
		err:     map[sqlite.Kind]error{sqlite.KindEphemeral: errors.New("locked")},
	}
	if got := newJanitor(purger, JanitorConfig{}).sweep(context.Background()); got != 2 {
		t.Fatalf("sweep() = %d, want 2", got)
	}
	if len(purger.calls) != 2 {
		t.Fatalf("calls = %+v", purger.calls)
	}
}

func TestJanitorRunSweepsUntilCancelled(t *testing.T) {
	t.Parallel()

	purger := &fakePurger{swept: make(chan struct{}, 1)}
	j := newJanitor(purger, JanitorConfig{Interval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.run(ctx)
		close(done)
	}()
	for i := 0; i < 2; i++ {
		select {
		case <-purger.swept:
		case <-time.After(5 * time.Second):
			t.Fatal("janitor did not sweep")
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestJanitorAgainstSQLiteStore(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	if got := newJanitor(env.store, JanitorConfig{}).sweep(context.Background()); got != 0 {
		t.Fatalf("sweep() = %d on empty store", got)
	}
}
