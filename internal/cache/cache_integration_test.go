//go:build integration

package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// liveRedis connects to REDIS_ADDR (default localhost:6379) under a prefix
// unique to the test and removes its keys afterwards.
func liveRedis(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}

	prefix := fmt.Sprintf("academy-test:%d:", time.Now().UnixNano())
	t.Cleanup(func() {
		keys, _ := rdb.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			_ = rdb.Del(ctx, keys...).Err()
		}
		_ = rdb.Close()
	})
	return NewFromRedis(rdb, prefix)
}

func TestRedis_SetGetDelete(t *testing.T) {
	c := liveRedis(t)
	ctx := context.Background()

	data, err := c.Get(ctx, "courses")
	require.NoError(t, err)
	assert.Nil(t, data, "miss before set")

	require.NoError(t, c.Set(ctx, "courses", []byte(`["a"]`), time.Minute))
	data, err = c.Get(ctx, "courses")
	require.NoError(t, err)
	assert.Equal(t, []byte(`["a"]`), data)

	require.NoError(t, c.Delete(ctx, "courses", "never-set"))
	data, err = c.Get(ctx, "courses")
	require.NoError(t, err)
	assert.Nil(t, data, "miss after delete")
}

func TestRedis_JSON(t *testing.T) {
	type entry struct {
		ID    string `json:"id"`
		Count int    `json:"count"`
	}

	tests := []struct {
		name  string
		raw   []byte
		value interface{}
		hit   bool
	}{
		{name: "encoded value", value: []entry{{ID: "l1", Count: 2}}, hit: true},
		{name: "undecodable value", raw: []byte("not json"), hit: false},
		{name: "missing key", hit: false},
	}

	c := liveRedis(t)
	ctx := context.Background()
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := fmt.Sprintf("json:%d", i)
			switch {
			case tt.raw != nil:
				require.NoError(t, c.Set(ctx, key, tt.raw, time.Minute))
			case tt.value != nil:
				c.SetJSON(ctx, key, tt.value, time.Minute)
			}

			var got []entry
			assert.Equal(t, tt.hit, c.GetJSON(ctx, key, &got))
			if tt.hit {
				assert.Equal(t, tt.value, got)
			}
		})
	}
}

func TestRedis_Expiry(t *testing.T) {
	c := liveRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", []byte("v"), 100*time.Millisecond))
	data, err := c.Get(ctx, "short")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)

	assert.Eventually(t, func() bool {
		data, err := c.Get(ctx, "short")
		return err == nil && data == nil
	}, 2*time.Second, 50*time.Millisecond)
}
