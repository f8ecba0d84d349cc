package linestore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-desk/internal/domain/lineitem"
	"github.com/BruksfildServices01/barber-desk/internal/models"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, time.Hour), s
}

func stores(t *testing.T) map[string]lineitem.Store {
	rs, _ := newRedisStore(t)
	return map[string]lineitem.Store{
		"memory": NewMemoryStore(),
		"redis":  rs,
	}
}

func TestStoreContract(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			got, err := store.Get(ctx, 1)
			require.NoError(t, err)
			assert.True(t, got.Empty())
			assert.Equal(t, uint(1), got.AppointmentID)

			updated, err := store.Update(ctx, 1, func(a *lineitem.Attachments) error {
				a.AttachService(3)
				a.SetProductQuantity(10, 2)
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, []uint{3}, updated.Services)

			got, err = store.Get(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, []uint{3}, got.Services)
			assert.Equal(t, 2, got.ProductQuantity(10))

			_, err = store.Update(ctx, 1, func(a *lineitem.Attachments) error {
				a.AttachService(4)
				return errors.New("abort")
			})
			require.Error(t, err)

			got, err = store.Get(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, []uint{3}, got.Services)

			require.NoError(t, store.Delete(ctx, 1))
			got, err = store.Get(ctx, 1)
			require.NoError(t, err)
			assert.True(t, got.Empty())
		})
	}
}

func TestStoreGetReturnsIndependentCopy(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := store.Update(ctx, 2, func(a *lineitem.Attachments) error {
				a.AttachService(1)
				return nil
			})
			require.NoError(t, err)

			got, _ := store.Get(ctx, 2)
			got.AttachService(99)

			again, _ := store.Get(ctx, 2)
			assert.Equal(t, []uint{1}, again.Services)
		})
	}
}

func TestStoreConcurrentIncrements(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			item := lineitemItem()

			var wg sync.WaitGroup
			for i := 0; i < 4; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = store.Update(ctx, 5, func(a *lineitem.Attachments) error {
						a.IncrementProduct(item)
						return nil
					})
				}()
			}
			wg.Wait()

			got, err := store.Get(ctx, 5)
			require.NoError(t, err)
			assert.LessOrEqual(t, got.ProductQuantity(item.ID), 4)
			assert.Greater(t, got.ProductQuantity(item.ID), 0)
		})
	}
}

func TestRedisStoreEmptyUpdateDeletesKey(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	_, err := store.Update(ctx, 7, func(a *lineitem.Attachments) error {
		a.AttachService(1)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, mr.Exists("line_items:7"))
	assert.Equal(t, time.Hour, mr.TTL("line_items:7"))

	_, err = store.Update(ctx, 7, func(a *lineitem.Attachments) error {
		a.DetachService(1)
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("line_items:7"))
}

func TestRedisStoreCorruptPayload(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("line_items:8", "{not json"))

	_, err := store.Get(context.Background(), 8)
	assert.Error(t, err)
}

func lineitemItem() models.InventoryItem {
	return models.InventoryItem{ID: 10, Name: "Pomada", Quantity: 10, Sellable: true}
}
