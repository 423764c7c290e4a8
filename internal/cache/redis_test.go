// internal/cache/redis_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishWithoutClient(t *testing.T) {
	Rdb = nil
	err := PublishGameAction(context.Background(), GameActionRecord{GameID: uuid.New(), ActionIndex: 1})
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.NoError(t, Close())
}

func TestConnectRedisBadURL(t *testing.T) {
	err := ConnectRedis(context.Background(), "not-a-redis-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
	assert.Nil(t, Rdb)
}

func TestConnectRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	// Port 1 on loopback refuses connections.
	err := ConnectRedis(ctx, "redis://127.0.0.1:1/0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
	assert.Nil(t, Rdb)
}
