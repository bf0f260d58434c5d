package genealogy

import (
	"context"
	"time"
)

// SnapshotCache holds the members and edges of a family between tree reads.
// Implementations treat every failure as a miss.
type SnapshotCache interface {
	Get(ctx context.Context, familyID int64) (*Snapshot, bool)
	Set(ctx context.Context, familyID int64, snapshot *Snapshot, ttl time.Duration)
	Delete(ctx context.Context, familyID int64)
}

type noopCache struct{}

func (noopCache) Get(context.Context, int64) (*Snapshot, bool) {
	return nil, false
}

func (noopCache) Set(context.Context, int64, *Snapshot, time.Duration) {}

func (noopCache) Delete(context.Context, int64) {}
