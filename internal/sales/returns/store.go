package returns

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftStore keeps one in-progress return per session in Redis. Drafts are
// removed on successful submission; saved returns live only behind the API.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore constructs a DraftStore.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &DraftStore{client: client, ttl: ttl}
}

// Load fetches the session's draft, returning a fresh idle draft when none
// is stored.
func (s *DraftStore) Load(ctx context.Context, sessionID string) (*Draft, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return NewDraft(), nil
		}
		return nil, err
	}
	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// Save persists the session's draft.
func (s *DraftStore) Save(ctx context.Context, sessionID string, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err()
}

// Delete discards the session's draft.
func (s *DraftStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

func (s *DraftStore) key(sessionID string) string {
	return "return_draft:" + sessionID
}
