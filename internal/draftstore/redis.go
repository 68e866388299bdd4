package draftstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/margaritastailoring/booking-platform/internal/booking/model"
)

// RedisStore keeps the whole list as one JSON value under Key. Concurrent
// appends race read-modify-write; last write wins on the full list, which is
// the accepted behavior for this advisory store.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed draft store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{redis: client}
}

// Append reads the current list, appends b and writes the list back.
func (s *RedisStore) Append(ctx context.Context, b model.StoredBooking) error {
	list, err := s.ListAll(ctx)
	if err != nil {
		return err
	}
	list = append(list, b)

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("draftstore: marshal bookings: %w", err)
	}
	if err := s.redis.Set(ctx, Key, data, 0).Err(); err != nil {
		return fmt.Errorf("draftstore: set bookings: %w", err)
	}
	return nil
}

// ListAll returns the stored list, or an empty list when nothing was stored.
func (s *RedisStore) ListAll(ctx context.Context) ([]model.StoredBooking, error) {
	data, err := s.redis.Get(ctx, Key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("draftstore: get bookings: %w", err)
	}

	var list []model.StoredBooking
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("draftstore: unmarshal bookings: %w", err)
	}
	return list, nil
}

var _ Store = (*RedisStore)(nil)
