// Package dedupe tracks identifiers already seen in a roster.
package dedupe

import (
	"context"

	"github.com/puzpuzpuz/xsync/v4"
)

// Deduper records seen ids together with where they were first seen.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen. If it was, it
	// returns true and the position recorded on first sight; otherwise it
	// records id at position and returns false.
	SeenAndRecord(ctx context.Context, id string, position int) (int, bool)

	// Size returns the number of distinct ids recorded.
	Size() int
}

// inMemoryDeduper implements Deduper over a concurrent map. A roster is read
// once up front, so there is no eviction.
type inMemoryDeduper struct {
	seen *xsync.Map[string, int]
}

// NewInMemoryDeduper creates a new in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	var cfg []func(*xsync.MapConfig)
	if o.sizeHint > 0 {
		cfg = append(cfg, xsync.WithPresize(o.sizeHint))
	}
	return &inMemoryDeduper{seen: xsync.NewMap[string, int](cfg...)}
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string, position int) (int, bool) {
	return d.seen.LoadOrStore(id, position)
}

func (d *inMemoryDeduper) Size() int {
	return d.seen.Size()
}
