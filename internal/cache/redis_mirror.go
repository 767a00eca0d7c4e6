package cache

import (
	"context"
	"encoding/json"
	"errors"

	dom "Tasker/internal/domain"

	"github.com/redis/go-redis/v9"
)

const defaultKey = "tasks"

// RedisMirror keeps the task list under a single Redis key, without expiry.
type RedisMirror struct {
	rdb *redis.Client
	key string
}

// NewRedisMirror returns a new RedisMirror. An empty key means "tasks".
func NewRedisMirror(rdb *redis.Client, key string) *RedisMirror {
	if key == "" {
		key = defaultKey
	}
	return &RedisMirror{rdb: rdb, key: key}
}

// Load returns the stored list or nil if the key is missing.
func (m *RedisMirror) Load(ctx context.Context) ([]dom.Task, error) {
	b, err := m.rdb.Get(ctx, m.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Save overwrites the stored list.
func (m *RedisMirror) Save(ctx context.Context, list []dom.Task) error {
	if list == nil {
		list = []dom.Task{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return m.rdb.Set(ctx, m.key, b, 0).Err()
}
