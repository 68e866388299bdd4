package draftstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/margaritastailoring/booking-platform/internal/booking/model"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func sampleBooking(id int64) model.StoredBooking {
	return model.StoredBooking{
		ID:        id,
		Status:    model.StatusPending,
		CreatedAt: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		Request: model.Request{
			FirstName: "Ana",
			LastName:  "García",
			Email:     "ana@example.com",
			Phone:     "8015550199",
			Service:   "reparaciones",
			Date:      "2025-06-10",
			Time:      "14:00",
		},
	}
}

func TestRedisStoreEmptyList(t *testing.T) {
	store, _ := newTestRedisStore(t)
	list, err := store.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list, got %d entries", len(list))
	}
}

func TestRedisStoreAppendOrder(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, store.Append(ctx, sampleBooking(id)))
	}

	list, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, id := range []int64{1, 2, 3} {
		require.Equal(t, id, list[i].ID, "position %d", i)
	}
	require.Equal(t, model.StatusPending, list[0].Status)
}

func TestRedisStoreUsesFixedKey(t *testing.T) {
	store, mr := newTestRedisStore(t)
	if err := store.Append(context.Background(), sampleBooking(7)); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists(Key) {
		t.Errorf("expected data under key %q", Key)
	}
}

func TestRedisStoreCorruptPayload(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Set(Key, "{not json")
	if _, err := store.ListAll(context.Background()); err == nil {
		t.Error("expected error on corrupt payload")
	}
}

func TestRedisStoreServerDown(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Close()
	if err := store.Append(context.Background(), sampleBooking(1)); err == nil {
		t.Error("expected error when redis is unavailable")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, sampleBooking(1)))
	require.NoError(t, store.Append(ctx, sampleBooking(2)))
	list, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// ListAll returns a copy.
	list[0].ID = 99
	again, _ := store.ListAll(ctx)
	if again[0].ID != 1 {
		t.Error("ListAll must return a copy")
	}
}
