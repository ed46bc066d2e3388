// Package store caches media metadata between the menu and the download phase.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wapuda/tg-ytfetch/internal/media"
)

type MetaStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *MetaStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MetaStore{rdb: rdb, ttl: ttl}
}

func keyMeta(mediaID string) string { return fmt.Sprintf("meta:%s", mediaID) }

// Put caches item under its id for the store TTL.
func (s *MetaStore) Put(ctx context.Context, item media.MediaItem) error {
	b, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyMeta(item.ID), b, s.ttl).Err()
}

// Get returns the cached item. ok is false on a miss.
func (s *MetaStore) Get(ctx context.Context, mediaID string) (media.MediaItem, bool, error) {
	raw, err := s.rdb.Get(ctx, keyMeta(mediaID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return media.MediaItem{}, false, nil
	}
	if err != nil {
		return media.MediaItem{}, false, err
	}
	var item media.MediaItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return media.MediaItem{}, false, err
	}
	return item, true, nil
}
