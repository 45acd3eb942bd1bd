// internal/engine/session/redis.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"travel-orchestrator/internal/models"
)

// RedisStore shares sessions across processes. Each session is a Redis list
// of JSON-encoded turns; TTL, when set, refreshes on every append so active
// conversations never expire mid-flight.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID + ":turns"
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, turn models.Turn) (int, error) {
	key := sessionKey(sessionID)

	length, err := s.client.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("session length %s: %w", sessionID, err)
	}
	turn.Request.TurnIndex = int(length)

	payload, err := json.Marshal(turn)
	if err != nil {
		return 0, fmt.Errorf("encode turn: %w", err)
	}

	if err := s.client.RPush(ctx, key, payload).Err(); err != nil {
		return 0, fmt.Errorf("append turn %s: %w", sessionID, err)
	}
	if s.ttl > 0 {
		s.client.Expire(ctx, key, s.ttl)
	}

	return int(length), nil
}

func (s *RedisStore) LastTurn(ctx context.Context, sessionID string) (models.Turn, bool, error) {
	raw, err := s.client.LIndex(ctx, sessionKey(sessionID), -1).Result()
	if err == redis.Nil {
		return models.Turn{}, false, nil
	}
	if err != nil {
		return models.Turn{}, false, fmt.Errorf("read last turn %s: %w", sessionID, err)
	}

	var turn models.Turn
	if err := json.Unmarshal([]byte(raw), &turn); err != nil {
		return models.Turn{}, false, fmt.Errorf("decode last turn %s: %w", sessionID, err)
	}
	return turn, true, nil
}

func (s *RedisStore) History(ctx context.Context, sessionID string) ([]models.Turn, error) {
	raws, err := s.client.LRange(ctx, sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", sessionID, err)
	}

	turns := make([]models.Turn, 0, len(raws))
	for _, raw := range raws {
		var turn models.Turn
		if err := json.Unmarshal([]byte(raw), &turn); err != nil {
			return nil, fmt.Errorf("decode turn %s: %w", sessionID, err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}
