package web

import (
	"context"
	"log"
	"time"

	"github.com/louisbranch/easyvents/internal/auth/storage/sqlite"
	"github.com/louisbranch/easyvents/internal/platform/timeouts"
)

const (
	defaultEphemeralTTL = 24 * time.Hour
	defaultDurableTTL   = 400 * 24 * time.Hour
)

// Purger removes stale session rows.
type Purger interface {
	Purge(ctx context.Context, kind sqlite.Kind, olderThan time.Duration) (int64, error)
}

// JanitorConfig sets how often and how aggressively stale rows are removed.
// Zero values take the defaults.
type JanitorConfig struct {
	Interval     time.Duration
	EphemeralTTL time.Duration
	DurableTTL   time.Duration
}

type janitor struct {
	purger Purger
	cfg    JanitorConfig
}

func newJanitor(purger Purger, cfg JanitorConfig) *janitor {
	if cfg.Interval <= 0 {
		cfg.Interval = timeouts.Janitor
	}
	if cfg.EphemeralTTL <= 0 {
		cfg.EphemeralTTL = defaultEphemeralTTL
	}
	if cfg.DurableTTL <= 0 {
		cfg.DurableTTL = defaultDurableTTL
	}
	return &janitor{purger: purger, cfg: cfg}
}

// run sweeps once at start and then on every tick until ctx ends.
func (j *janitor) run(ctx context.Context) {
	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()
	for {
		j.sweep(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// sweep purges both kinds and returns the number of removed rows.
func (j *janitor) sweep(ctx context.Context) int64 {
	var total int64
	for _, target := range []struct {
		kind sqlite.Kind
		ttl  time.Duration
	}{
		{sqlite.KindEphemeral, j.cfg.EphemeralTTL},
		{sqlite.KindDurable, j.cfg.DurableTTL},
	} {
		removed, err := j.purger.Purge(ctx, target.kind, target.ttl)
		if err != nil {
			log.Printf("janitor purge kind=%s err=%v", target.kind, err)
			continue
		}
		if removed > 0 {
			log.Printf("janitor purged kind=%s rows=%d", target.kind, removed)
		}
		total += removed
	}
	return total
}
