package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	draftKeyPrefix = "draft:"
	lockKeyPrefix  = "draft:lock:"
	lockTTL        = 10 * time.Second
	lockRetry      = 25 * time.Millisecond
)

// Store persists drafts in Redis as JSON documents with a TTL, so an
// abandoned editing session expires on its own.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore instantiates the draft store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

// Create persists a fresh draft.
func (s *Store) Create(ctx context.Context, draft *Draft) error {
	if draft == nil {
		return errors.New("store: draft required")
	}
	return s.put(ctx, draft)
}

// Get loads a draft by id.
func (s *Store) Get(ctx context.Context, id string) (*Draft, error) {
	payload, err := s.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: load draft: %w", err)
	}
	var draft Draft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, fmt.Errorf("store: decode draft: %w", err)
	}
	return &draft, nil
}

// Update applies fn to the draft under a per-draft lock and persists the
// result. This is the single mutation path: fn mutates, the draft's own
// methods recompute, and the post-mutation state is what readers observe.
func (s *Store) Update(ctx context.Context, id string, fn func(*Draft) error) (*Draft, error) {
	if fn == nil {
		return nil, errors.New("store: update callback required")
	}
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	draft, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(draft); err != nil {
		return nil, err
	}
	if err := s.put(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Delete discards a draft.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, draftKeyPrefix+id).Err()
}

func (s *Store) put(ctx context.Context, draft *Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("store: encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKeyPrefix+draft.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store: save draft: %w", err)
	}
	return nil
}

// lock acquires a short-lived mutation lock for one draft, spinning until
// the context is cancelled.
func (s *Store) lock(ctx context.Context, id string) (func(), error) {
	key := lockKeyPrefix + id
	token := uuid.NewString()
	for {
		ok, err := s.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("store: acquire lock: %w", err)
		}
		if ok {
			return func() { s.release(key, token) }, nil
		}
		timer := time.NewTimer(lockRetry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *Store) release(key, token string) {
	const script = `if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`
	_ = s.client.Eval(context.Background(), script, []string{key}, token).Err()
}
