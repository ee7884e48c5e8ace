package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists the hand-off records for one visitor session. Absent
// records are returned as (nil, nil); only transport failures error.
type Store interface {
	PutHandoff(ctx context.Context, sid string, h *RegistrationHandoff) error
	Handoff(ctx context.Context, sid string) (*RegistrationHandoff, error)
	DeleteHandoff(ctx context.Context, sid string) error

	PutOutcome(ctx context.Context, sid string, o *PaymentOutcome) error
	Outcome(ctx context.Context, sid string) (*PaymentOutcome, error)
	// TakeOutcome reads and deletes in one step, so a page refresh after
	// consumption finds nothing and redirects away.
	TakeOutcome(ctx context.Context, sid string) (*PaymentOutcome, error)
}

// RedisStore keeps hand-off records in Redis with a TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func handoffKey(sid string) string { return "handoff:" + sid }
func outcomeKey(sid string) string { return "outcome:" + sid }

// PutHandoff stores the registration hand-off for sid.
func (s *RedisStore) PutHandoff(ctx context.Context, sid string, h *RegistrationHandoff) error {
	return s.put(ctx, handoffKey(sid), h)
}

// Handoff returns the stored hand-off, or nil when absent.
func (s *RedisStore) Handoff(ctx context.Context, sid string) (*RegistrationHandoff, error) {
	var h RegistrationHandoff
	ok, err := s.get(ctx, handoffKey(sid), &h)
	if err != nil || !ok {
		return nil, err
	}
	return &h, nil
}

// DeleteHandoff removes the hand-off for sid.
func (s *RedisStore) DeleteHandoff(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, handoffKey(sid)).Err()
}

// PutOutcome stores the pending payment record for sid.
func (s *RedisStore) PutOutcome(ctx context.Context, sid string, o *PaymentOutcome) error {
	return s.put(ctx, outcomeKey(sid), o)
}

// Outcome returns the stored payment record without consuming it.
func (s *RedisStore) Outcome(ctx context.Context, sid string) (*PaymentOutcome, error) {
	var o PaymentOutcome
	ok, err := s.get(ctx, outcomeKey(sid), &o)
	if err != nil || !ok {
		return nil, err
	}
	return &o, nil
}

// TakeOutcome consumes the payment record via GETDEL.
func (s *RedisStore) TakeOutcome(ctx context.Context, sid string) (*PaymentOutcome, error) {
	data, err := s.rdb.GetDel(ctx, outcomeKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session getdel: %w", err)
	}
	var o PaymentOutcome
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &o, nil
}

func (s *RedisStore) put(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (s *RedisStore) get(ctx context.Context, key string, v interface{}) (bool, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session get: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("session decode: %w", err)
	}
	return true, nil
}
