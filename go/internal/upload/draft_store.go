package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// DefaultDraftTTL bounds how long a picked image waits for its form.
const DefaultDraftTTL = 30 * time.Minute

// DraftStore keeps the pending image of an unfinished form between requests.
// Get returns (nil, nil) when nothing is pending.
type DraftStore interface {
	Put(ctx context.Context, key string, img *Image) error
	Get(ctx context.Context, key string) (*Image, error)
	Delete(ctx context.Context, key string) error
}

// DraftKey scopes a draft to one operator session and one form.
func DraftKey(draftID, form string) string {
	return fmt.Sprintf("tplauction:draft:%s:%s", draftID, form)
}

type memoryEntry struct {
	img       *Image
	expiresAt time.Time
}

// MemoryDraftStore is the single-process DraftStore.
type MemoryDraftStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	clock   clockwork.Clock
}

func NewMemoryDraftStore(ttl time.Duration, clock clockwork.Clock) *MemoryDraftStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryDraftStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

func (s *MemoryDraftStore) Put(ctx context.Context, key string, img *Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.sweep(now)
	s.entries[key] = memoryEntry{img: img, expiresAt: now.Add(s.ttl)}
	return nil
}

// sweep drops drafts whose form was abandoned. Callers hold mu.
func (s *MemoryDraftStore) sweep(now time.Time) {
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// Len reports how many drafts are held, expired ones included.
func (s *MemoryDraftStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryDraftStore) Get(ctx context.Context, key string) (*Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if s.clock.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}
	return entry.img, nil
}

func (s *MemoryDraftStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// RedisDraftStore shares drafts across console replicas.
type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDraftStore connects and pings Redis.
func NewRedisDraftStore(redisURL string, ttl time.Duration) (*RedisDraftStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisDraftStore{client: client, ttl: ttl}, nil
}

func (s *RedisDraftStore) Put(ctx context.Context, key string, img *Image) error {
	data, err := json.Marshal(img)
	if err != nil {
		return fmt.Errorf("failed to marshal draft image: %w", err)
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *RedisDraftStore) Get(ctx context.Context, key string) (*Image, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft image: %w", err)
	}

	var img Image
	if err := json.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft image: %w", err)
	}
	return &img, nil
}

func (s *RedisDraftStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Close closes the Redis connection
func (s *RedisDraftStore) Close() error {
	return s.client.Close()
}
