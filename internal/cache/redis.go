// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// GameActionsQueue is the list the historian consumes.
const GameActionsQueue = "game_actions_queue"

// Rdb is the shared client. It stays nil when no REDIS_URL is configured, in
// which case the action journal is off.
var Rdb *redis.Client

// ErrNotConnected is returned when the journal is used without a client.
var ErrNotConnected = errors.New("redis client not initialized")

// GameActionRecord is one journal entry: a single room action or lifecycle
// event, in order.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"game_id"`
	RoomCode      string                 `json:"room_code"`
	ActionIndex   int                    `json:"action_index"`
	ActorUserID   uuid.UUID              `json:"actor_user_id"` // uuid.Nil for room events
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"` // unix millis
}

// ConnectRedis parses url, connects and pings. On success Rdb is set.
func ConnectRedis(ctx context.Context, url string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("ping redis: %w", err)
	}
	Rdb = client
	return nil
}

// Close releases the shared client.
func Close() error {
	if Rdb == nil {
		return nil
	}
	err := Rdb.Close()
	Rdb = nil
	return err
}

// PublishGameAction appends rec to the historian queue.
func PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if Rdb == nil {
		return ErrNotConnected
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action %d: %w", rec.ActionIndex, err)
	}
	return Rdb.RPush(ctx, GameActionsQueue, data).Err()
}
