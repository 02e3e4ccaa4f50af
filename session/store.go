package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"inventaris_admin/models"

	"github.com/redis/go-redis/v9"
)

// recordName is the fixed name of the persisted profile record.
const recordName = "profile"

// Record is the persisted form: {token, data: profile, expire: unix}.
type Record struct {
	Token  string         `json:"token"`
	Data   models.Profile `json:"data"`
	Expire int64          `json:"expire"`
}

// Store persists one Record per client. Load returns ErrNoSession when absent.
type Store interface {
	Save(ctx context.Context, clientID string, rec Record, ttl time.Duration) error
	Load(ctx context.Context, clientID string) (*Record, error)
	Delete(ctx context.Context, clientID string) error
}

func key(clientID string) string { return fmt.Sprintf("app:%s:%s", recordName, clientID) }

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func (s *RedisStore) Save(ctx context.Context, clientID string, rec Record, ttl time.Duration) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(clientID), b, ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, clientID string) (*Record, error) {
	b, err := s.rdb.Get(ctx, key(clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *RedisStore) Delete(ctx context.Context, clientID string) error {
	return s.rdb.Del(ctx, key(clientID)).Err()
}

// MemoryStore keeps records in process; used when no Redis is configured.
type MemoryStore struct {
	mu   sync.Mutex
	recs map[string]memEntry
	now  func() time.Time
}

type memEntry struct {
	rec      Record
	deadline time.Time // zero: no expiry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]memEntry), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, clientID string, rec Record, ttl time.Duration) error {
	e := memEntry{rec: rec}
	if ttl > 0 {
		e.deadline = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.recs[key(clientID)] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, clientID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.recs[key(clientID)]
	if !ok {
		return nil, ErrNoSession
	}
	if !e.deadline.IsZero() && !s.now().Before(e.deadline) {
		delete(s.recs, key(clientID))
		return nil, ErrNoSession
	}
	rec := e.rec
	return &rec, nil
}

func (s *MemoryStore) Delete(_ context.Context, clientID string) error {
	s.mu.Lock()
	delete(s.recs, key(clientID))
	s.mu.Unlock()
	return nil
}
