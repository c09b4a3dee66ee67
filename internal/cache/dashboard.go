package cache

import (
	"context"
	"time"
)

const (
	generationKey   = "performance:generation"
	dashboardPrefix = "performance:all:"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) error
}

// Dashboard caches rendered manager dashboards per date range.
// Keys embed a generation counter; Invalidate bumps it so stale entries are never read again
// and simply expire.
type Dashboard struct {
	store Store
	ttl   time.Duration
}

func NewDashboard(store Store, ttl time.Duration) *Dashboard {
	return &Dashboard{store: store, ttl: ttl}
}

// Get looks up the dashboard for rangeKey under the current generation and returns the
// resolved key. Set must be given that key, never a freshly resolved one.
func (d *Dashboard) Get(ctx context.Context, rangeKey string) ([]byte, string, bool) {
	key := d.key(ctx, rangeKey)
	data, ok := d.store.Get(ctx, key)
	return data, key, ok
}

func (d *Dashboard) Set(ctx context.Context, key string, data []byte) error {
	return d.store.Set(ctx, key, data, d.ttl)
}

func (d *Dashboard) Invalidate(ctx context.Context) error {
	return d.store.Incr(ctx, generationKey)
}

func (d *Dashboard) key(ctx context.Context, rangeKey string) string {
	gen := "0"
	if b, ok := d.store.Get(ctx, generationKey); ok {
		gen = string(b)
	}
	return dashboardPrefix + gen + ":" + rangeKey
}
