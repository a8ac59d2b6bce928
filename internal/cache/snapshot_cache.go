package cache

import (
	"context"
	"diagform/internal/model"
	"diagform/internal/repository"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type snapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache stores snapshots in Redis. A zero ttl keeps them forever.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) repository.SnapshotStore {
	return &snapshotCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *snapshotCache) key(name string) string {
	return fmt.Sprintf("snapshot:%s", name)
}

func (c *snapshotCache) Put(ctx context.Context, snapshot *model.Snapshot) error {
	ok, err := c.client.SetNX(ctx, c.key(snapshot.Name), snapshot.Data, c.ttl).Result()
	if err != nil {
		return fmt.Errorf("store snapshot %s: %w", snapshot.Name, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", repository.ErrSnapshotExists, snapshot.Name)
	}
	return nil
}
