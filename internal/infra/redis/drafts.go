package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/a-nagdy/anasityshop-sub000/internal/core/domain"
)

// SaveDraft persists a checkout draft and refreshes its position in the
// sweep index. The caller serializes writes per session.
func (c *Client) SaveDraft(ctx context.Context, draft *domain.CheckoutDraft) error {
	if draft.ID == "" {
		return fmt.Errorf("draft id is empty")
	}
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}

	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, draftKey(draft.ID), data, 0)
	pipe.ZAdd(ctx, draftIndexKey, redis.Z{Score: float64(time.Now().Unix()), Member: draft.ID})
	if draft.SessionID != "" {
		pipe.Set(ctx, sessionKey(draft.SessionID), draft.ID, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// GetDraft loads a draft by id. A missing draft returns (nil, nil); the
// checkout flow restarts from the cart in that case.
func (c *Client) GetDraft(ctx context.Context, id string) (*domain.CheckoutDraft, error) {
	val, err := c.rdb.Get(ctx, draftKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}

	var draft domain.CheckoutDraft
	if err := json.Unmarshal(val, &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &draft, nil
}

// GetDraftBySession resolves the session's current draft, if any.
func (c *Client) GetDraftBySession(ctx context.Context, sessionID string) (*domain.CheckoutDraft, error) {
	id, err := c.rdb.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session draft: %w", err)
	}
	return c.GetDraft(ctx, id)
}

// DeleteDraft removes a draft, its sweep index entry and its session link.
func (c *Client) DeleteDraft(ctx context.Context, id string) error {
	draft, err := c.GetDraft(ctx, id)
	if err != nil {
		return err
	}

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, draftKey(id))
	pipe.ZRem(ctx, draftIndexKey, id)
	if draft != nil && draft.SessionID != "" {
		pipe.Del(ctx, sessionKey(draft.SessionID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// SweepDrafts deletes drafts not touched within olderThan and returns how
// many were removed.
func (c *Client) SweepDrafts(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan).Unix()
	ids, err := c.rdb.ZRangeByScore(ctx, draftIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(cutoff, 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("zrangebyscore failed: %w", err)
	}

	swept := 0
	for _, id := range ids {
		if err := c.DeleteDraft(ctx, id); err != nil {
			return swept, err
		}
		swept++
	}
	return swept, nil
}

// CountDrafts returns the number of drafts currently persisted.
func (c *Client) CountDrafts(ctx context.Context) (int64, error) {
	return c.rdb.ZCard(ctx, draftIndexKey).Result()
}
