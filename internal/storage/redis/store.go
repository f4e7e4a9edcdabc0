// Package redis stores tasks in a Redis hash used as a partitioned key-value
// table: one hash per partition, the task id as field, the JSON record as
// value.
package redis

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"taskhub/internal/models"
	"taskhub/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// replaceIfExists writes the record only when the field is already present.
var replaceIfExists = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 1 then
	redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
	return 1
end
return 0
`)

// Store is a Redis-backed task table.
type Store struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

// Open connects to the Redis server at url and verifies the connection.
func Open(ctx context.Context, url, prefix string, logger *slog.Logger) (*Store, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return New(client, prefix, logger), nil
}

// New wraps an existing client. Keys are namespaced under prefix.
func New(client *redis.Client, prefix string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	key := storage.Partition
	if prefix != "" {
		key = prefix + ":" + storage.Partition
	}
	return &Store{client: client, key: key, logger: logger}
}

// Insert adds a task; the id must not already be present in the partition.
func (s *Store) Insert(ctx context.Context, t models.Task) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	added, err := s.client.HSetNX(ctx, s.key, t.ID, data).Result()
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	if !added {
		return fmt.Errorf("task %s already exists", t.ID)
	}
	return nil
}

// Get fetches a task by id.
func (s *Store) Get(ctx context.Context, id string) (models.Task, error) {
	data, err := s.client.HGet(ctx, s.key, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return decode(data)
}

// List reads the whole partition. Hash order is undefined, so results are
// sorted by creation time and then id. A record that cannot be decoded fails
// the whole listing.
func (s *Store) List(ctx context.Context, status string) ([]models.Task, error) {
	records, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]models.Task, 0, len(records))
	for id, v := range records {
		t, err := decode([]byte(v))
		if err != nil {
			s.logger.Error("unreadable task record", slog.String("key", s.key), slog.String("task_id", id), slog.String("error", err.Error()))
			return nil, fmt.Errorf("decode task %s: %w", id, err)
		}
		if status != "" && t.Status != status {
			continue
		}
		tasks = append(tasks, t)
	}

	slices.SortFunc(tasks, func(a, b models.Task) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return tasks, nil
}

// Update replaces an existing record.
func (s *Store) Update(ctx context.Context, t models.Task) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	replaced, err := replaceIfExists.Run(ctx, s.client, []string{s.key}, t.ID, data).Int()
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if replaced == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes a task by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	removed, err := s.client.HDel(ctx, s.key, id).Result()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if removed == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func decode(data []byte) (models.Task, error) {
	var t models.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return models.Task{}, fmt.Errorf("unmarshal task: %w", err)
	}
	return t, nil
}
