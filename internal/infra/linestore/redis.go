package linestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barber-desk/internal/config"
	"github.com/BruksfildServices01/barber-desk/internal/domain/lineitem"
)

const maxTxRetries = 5

var ErrConflict = errors.New("linestore: too many concurrent updates")

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore keeps one JSON document per appointment under
// "line_items:<id>", refreshed with the configured TTL on every write.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(appointmentID uint) string {
	return fmt.Sprintf("line_items:%d", appointmentID)
}

func (s *RedisStore) Get(ctx context.Context, appointmentID uint) (*lineitem.Attachments, error) {
	return s.read(ctx, s.client, appointmentID)
}

func (s *RedisStore) Update(
	ctx context.Context,
	appointmentID uint,
	fn func(*lineitem.Attachments) error,
) (*lineitem.Attachments, error) {
	key := s.key(appointmentID)

	var out *lineitem.Attachments
	txf := func(tx *redis.Tx) error {
		cur, err := s.read(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		if err := fn(cur); err != nil {
			return err
		}

		data, err := json.Marshal(cur)
		if err != nil {
			return fmt.Errorf("failed to marshal line items: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if cur.Disposable() {
				pipe.Del(ctx, key)
			} else {
				pipe.Set(ctx, key, data, s.ttl)
			}
			return nil
		})
		if err != nil {
			return err
		}

		out = cur
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return nil, err
	}
	return nil, ErrConflict
}

func (s *RedisStore) Delete(ctx context.Context, appointmentID uint) error {
	if err := s.client.Del(ctx, s.key(appointmentID)).Err(); err != nil {
		return fmt.Errorf("failed to delete line items: %w", err)
	}
	return nil
}

func (s *RedisStore) read(ctx context.Context, c getter, appointmentID uint) (*lineitem.Attachments, error) {
	raw, err := c.Get(ctx, s.key(appointmentID)).Bytes()
	if err == redis.Nil {
		return lineitem.New(appointmentID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get line items: %w", err)
	}

	a := lineitem.New(appointmentID)
	if err := json.Unmarshal(raw, a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal line items: %w", err)
	}
	if a.Products == nil {
		a.Products = map[uint]int{}
	}
	if a.Services == nil {
		a.Services = []uint{}
	}
	a.AppointmentID = appointmentID
	return a, nil
}

// Ping checks the connection at startup.
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

var _ lineitem.Store = (*RedisStore)(nil)
