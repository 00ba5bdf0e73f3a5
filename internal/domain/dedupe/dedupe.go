// Package dedupe suppresses exact-duplicate plate appearances before the
// rating pass. The engine's correctness (at most one rating update per
// real plate appearance) depends on this running over the full event set.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen event keys to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	Size() int64
}

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithSizeHint pre-sizes the seen set for an expected number of events.
func WithSizeHint(n int) Option {
	return func(d *inMemoryDeduper) {
		if n > 0 {
			d.sizeHint = n
		}
	}
}

// inMemoryDeduper implements Deduper with an unbounded seen set. Unlike a
// long-running service, a batch pass must never evict: a forgotten key
// would let a duplicate through and double-apply an update.
type inMemoryDeduper struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	sizeHint int
	size     atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{}, d.sizeHint)
	return d
}

// SeenAndRecord atomically checks if key was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}
	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false
}

// Size returns the current number of recorded keys.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
