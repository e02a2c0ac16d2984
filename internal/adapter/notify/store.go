// Package notify keeps per-user notification feeds in Redis. Feeds are
// short-lived by design: reminders lose their value once the interview has
// passed, so every write refreshes a TTL instead of growing a permanent log.
package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/jobdeck/jobdeck/internal/domain"
)

// maxPerUser caps the feed so a user who never opens the bell does not
// accumulate unbounded entries.
const maxPerUser = 100

// Store implements domain.NotificationStore on a Redis list per user.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore constructs a Store with the given feed TTL.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func feedKey(userID string) string { return "notifications:" + userID }

// Push prepends one notification to the user's feed, trims to the cap and
// refreshes the TTL. The assigned id is returned.
func (s *Store) Push(ctx domain.Context, userID string, n domain.Notification) (string, error) {
	if n.ID == "" {
		n.ID = ulid.Make().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	blob, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("op=notify.push: %w", err)
	}
	key := feedKey(userID)
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, key, blob)
	pipe.LTrim(ctx, key, 0, maxPerUser-1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("op=notify.push: %w", err)
	}
	return n.ID, nil
}

// List returns the user's feed, newest first. A missing key is an empty feed,
// never an error.
func (s *Store) List(ctx domain.Context, userID string) ([]domain.Notification, error) {
	raw, err := s.rdb.LRange(ctx, feedKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("op=notify.list: %w", err)
	}
	out := make([]domain.Notification, 0, len(raw))
	for _, blob := range raw {
		var n domain.Notification
		if err := json.Unmarshal([]byte(blob), &n); err != nil {
			// skip entries written by an incompatible older build
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// markSeenRetries bounds optimistic-lock retries when pushes race a rewrite.
const markSeenRetries = 64

// MarkSeen flips Seen on the listed notification ids. Unknown ids are ignored.
// The feed is rewritten as one transaction under WATCH: indexing into the live
// list is unsafe because a concurrent Push shifts every element.
func (s *Store) MarkSeen(ctx domain.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	key := feedKey(userID)

	rewrite := func(tx *redis.Tx) error {
		raw, err := tx.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			return err
		}
		out := make([]interface{}, 0, len(raw))
		changed := false
		for _, blob := range raw {
			var n domain.Notification
			if err := json.Unmarshal([]byte(blob), &n); err == nil && want[n.ID] && !n.Seen {
				n.Seen = true
				updated, err := json.Marshal(n)
				if err != nil {
					return err
				}
				out = append(out, updated)
				changed = true
				continue
			}
			out = append(out, blob)
		}
		if !changed {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.RPush(ctx, key, out...)
			pipe.Expire(ctx, key, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < markSeenRetries; i++ {
		err := s.rdb.Watch(ctx, rewrite, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("op=notify.mark_seen: %w", err)
	}
	return fmt.Errorf("op=notify.mark_seen: %w", redis.TxFailedErr)
}
