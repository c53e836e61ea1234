package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, NewRedisCacheConfig{Address: "127.0.0.1:1"}, zap.NewNop())
	assert.ErrorContains(t, err, "failed to connect to Redis at 127.0.0.1:1")
}

// Needs a running server, e.g. `docker run -p 6379:6379 redis` and
// REDIS_ADDRESS=localhost:6379.
func TestRedisCache_Slot(t *testing.T) {
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_ADDRESS not set")
	}
	ctx := context.Background()
	rc, err := NewRedisCache(ctx, NewRedisCacheConfig{Address: addr}, zap.NewNop())
	require.NoError(t, err)
	defer rc.Close()

	key := "jar.test." + uuid.NewString()
	defer rc.Delete(ctx, key)

	val, err := rc.Get(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, val)

	require.NoError(t, rc.Set(ctx, key, `{"users":["travis"]}`, 0))
	val, err = rc.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"users":["travis"]}`, val)

	require.NoError(t, rc.Delete(ctx, key))
	val, err = rc.Get(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, val)
}
