package inmemory

import (
	"context"
	"sync"
	"time"

	genealogydomain "genealogy-app-go/internal/domain/genealogy"
)

// SnapshotCache keeps tree snapshots in process memory.
type SnapshotCache struct {
	mu    sync.RWMutex
	items map[int64]snapshotItem
	now   func() time.Time
}

type snapshotItem struct {
	value     genealogydomain.Snapshot
	expiresAt time.Time
}

func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{
		items: make(map[int64]snapshotItem),
		now:   time.Now,
	}
}

func (c *SnapshotCache) Get(_ context.Context, familyID int64) (*genealogydomain.Snapshot, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[familyID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[familyID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, familyID)
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneSnapshot(item.value), true
}

func (c *SnapshotCache) Set(ctx context.Context, familyID int64, snapshot *genealogydomain.Snapshot, ttl time.Duration) {
	if snapshot == nil || ttl <= 0 {
		c.Delete(ctx, familyID)
		return
	}

	c.mu.Lock()
	c.items[familyID] = snapshotItem{
		value:     *cloneSnapshot(*snapshot),
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *SnapshotCache) Delete(_ context.Context, familyID int64) {
	c.mu.Lock()
	delete(c.items, familyID)
	c.mu.Unlock()
}

func (c *SnapshotCache) Clear() {
	c.mu.Lock()
	c.items = make(map[int64]snapshotItem)
	c.mu.Unlock()
}

// cloneSnapshot copies the slices so callers cannot mutate cached state.
func cloneSnapshot(snapshot genealogydomain.Snapshot) *genealogydomain.Snapshot {
	members := make([]genealogydomain.Member, len(snapshot.Members))
	copy(members, snapshot.Members)
	edges := make([]genealogydomain.Edge, len(snapshot.Edges))
	copy(edges, snapshot.Edges)
	return &genealogydomain.Snapshot{Members: members, Edges: edges}
}
