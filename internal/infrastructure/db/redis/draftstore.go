package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/curationlink/board-api/internal/core/domain"
)

// draftTTL bounds how long an abandoned editing session survives.
const draftTTL = 24 * time.Hour

// DraftStore persists in-progress board drafts as JSON documents with a TTL.
// Key format: draft:<draft_id>
type DraftStore struct {
	client *redis.Client
}

// NewDraftStore creates a DraftStore wrapping the given Redis client.
func NewDraftStore(client *redis.Client) *DraftStore {
	return &DraftStore{client: client}
}

// Put stores the draft, refreshing its TTL on every write.
func (s *DraftStore) Put(ctx context.Context, d *domain.BoardDraft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("draft marshal: %w", err)
	}
	if err := s.client.Set(ctx, s.key(d.ID), data, draftTTL).Err(); err != nil {
		return fmt.Errorf("draft put: %w", err)
	}
	return nil
}

// Get returns the draft, or domain.ErrDraftNotFound when it does not exist
// or has expired.
func (s *DraftStore) Get(ctx context.Context, id string) (*domain.BoardDraft, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("draft get: %w", err)
	}

	var d domain.BoardDraft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("draft unmarshal: %w", err)
	}
	return &d, nil
}

// Delete removes the draft. Deleting a missing draft is not an error.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("draft delete: %w", err)
	}
	return nil
}

func (s *DraftStore) key(id string) string {
	return "draft:" + id
}
