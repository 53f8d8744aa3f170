// internal/quota/redis.go

package quota

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	redisKeyPrefix = "quota:"
	// Counters are only read for the current day
	redisCounterTTL = 48 * time.Hour
)

// RedisStore keeps counters in a redis hash per party and uses WATCH/MULTI
// for the compare-and-swap
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func counterKey(partyID int64) string {
	return redisKeyPrefix + strconv.FormatInt(partyID, 10)
}

func (s *RedisStore) Load(ctx context.Context, partyID int64) (*Counter, error) {
	fields, err := s.client.HGetAll(ctx, counterKey(partyID)).Result()
	if err != nil {
		return nil, err
	}
	return decodeCounter(partyID, fields)
}

func (s *RedisStore) Save(ctx context.Context, c *Counter) error {
	key := counterKey(c.PartyID)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, "version").Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != c.Version {
			return ErrConcurrentUpdate
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key,
				"reset_date", c.ResetDate.Format("2006-01-02"),
				"matches_sent", c.MatchesSent,
				"messages_sent", c.MessagesSent,
				"version", c.Version+1,
			)
			pipe.Expire(ctx, key, redisCounterTTL)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrConcurrentUpdate
	}
	if err != nil {
		return err
	}

	c.Version++
	return nil
}

func decodeCounter(partyID int64, fields map[string]string) (*Counter, error) {
	c := &Counter{PartyID: partyID}
	if len(fields) == 0 {
		return c, nil
	}

	var err error
	if c.ResetDate, err = time.Parse("2006-01-02", fields["reset_date"]); err != nil {
		return nil, fmt.Errorf("corrupt quota counter %d: %w", partyID, err)
	}
	if c.MatchesSent, err = strconv.Atoi(fields["matches_sent"]); err != nil {
		return nil, fmt.Errorf("corrupt quota counter %d: %w", partyID, err)
	}
	if c.MessagesSent, err = strconv.Atoi(fields["messages_sent"]); err != nil {
		return nil, fmt.Errorf("corrupt quota counter %d: %w", partyID, err)
	}
	if c.Version, err = strconv.ParseInt(fields["version"], 10, 64); err != nil {
		return nil, fmt.Errorf("corrupt quota counter %d: %w", partyID, err)
	}
	return c, nil
}
