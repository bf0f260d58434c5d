package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	genealogydomain "genealogy-app-go/internal/domain/genealogy"
	"genealogy-app-go/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// SnapshotCache shares tree snapshots between instances through redis.
// Failures are logged and reported as misses.
type SnapshotCache struct {
	client *redis.Client
	log    logger.Logger
	prefix string
}

func NewSnapshotCache(client *redis.Client, log logger.Logger) *SnapshotCache {
	return &SnapshotCache{client: client, log: log, prefix: "genealogy:snapshot"}
}

func (c *SnapshotCache) key(familyID int64) string {
	return fmt.Sprintf("%s:%d", c.prefix, familyID)
}

func (c *SnapshotCache) Get(ctx context.Context, familyID int64) (*genealogydomain.Snapshot, bool) {
	payload, err := c.client.Get(ctx, c.key(familyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("snapshots.get: redis read failed", "genealogy_id", familyID, "err", err)
		return nil, false
	}

	var snapshot genealogydomain.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		c.log.Warn("snapshots.get: corrupt entry", "genealogy_id", familyID, "err", err)
		c.Delete(ctx, familyID)
		return nil, false
	}
	return &snapshot, true
}

func (c *SnapshotCache) Set(ctx context.Context, familyID int64, snapshot *genealogydomain.Snapshot, ttl time.Duration) {
	if snapshot == nil || ttl <= 0 {
		c.Delete(ctx, familyID)
		return
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		c.log.Warn("snapshots.set: encode failed", "genealogy_id", familyID, "err", err)
		return
	}
	if err := c.client.Set(ctx, c.key(familyID), payload, ttl).Err(); err != nil {
		c.log.Warn("snapshots.set: redis write failed", "genealogy_id", familyID, "err", err)
	}
}

func (c *SnapshotCache) Delete(ctx context.Context, familyID int64) {
	if err := c.client.Del(ctx, c.key(familyID)).Err(); err != nil {
		c.log.Warn("snapshots.delete: redis delete failed", "genealogy_id", familyID, "err", err)
	}
}
