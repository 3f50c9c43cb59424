package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOptions(t *testing.T) {
	cfg := defaultRedisConfig()
	for _, opt := range []RedisOption{
		WithRedisAddr("redis:6380"),
		WithRedisPassword("pw"),
		WithRedisDB(2),
		WithRedisPool(8, 2, time.Second),
		WithRedisPrefix("audit"),
		WithRedisPingTimeout(0),
	} {
		opt(cfg)
	}

	assert.Equal(t, "redis:6380", cfg.Addr)
	assert.Equal(t, "pw", cfg.Password)
	assert.Equal(t, 2, cfg.DB)
	assert.Equal(t, 8, cfg.PoolSize)
	assert.Equal(t, 2, cfg.MinIdleConns)
	assert.Equal(t, time.Second, cfg.PoolTimeout)
	assert.Equal(t, "audit", cfg.Prefix)
	assert.Zero(t, cfg.PingTimeout)
}

func TestNewRedisCacheWithoutPing(t *testing.T) {
	c, err := NewRedisCache(WithRedisAddr("127.0.0.1:1"), WithRedisPingTimeout(0), WithRedisPrefix("acatn"))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "acatn:config:latest", c.wrapKey("config:latest"))
}

// captureHook records commands instead of sending them to a server.
type captureHook struct {
	cmds [][]interface{}
}

func (h *captureHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *captureHook) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		h.cmds = append(h.cmds, cmd.Args())
		return nil
	}
}

func (h *captureHook) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(_ context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			switch cmd.Name() {
			case "multi", "exec":
				continue
			}
			h.cmds = append(h.cmds, cmd.Args())
		}
		return nil
	}
}

func capturingCache(t *testing.T) (*RedisCache, *captureHook) {
	t.Helper()
	c, err := NewRedisCache(WithRedisAddr("127.0.0.1:1"), WithRedisPingTimeout(0), WithRedisPool(1, 0, time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	h := &captureHook{}
	c.client.AddHook(h)
	return c, h
}

func TestSetAndPushKeepsNewest(t *testing.T) {
	c, h := capturingCache(t)

	err := c.SetAndPush(context.Background(), "config:latest", "config:history", map[string]string{"id": "a"}, 50)
	require.NoError(t, err)
	require.Len(t, h.cmds, 3)

	assert.Equal(t, "set", h.cmds[0][0])
	assert.Equal(t, "acatn:config:latest", h.cmds[0][1])
	assert.JSONEq(t, `{"id":"a"}`, string(h.cmds[0][2].([]byte)))

	assert.Equal(t, []interface{}{"lpush", "acatn:config:history", h.cmds[0][2]}, h.cmds[1])
	assert.Equal(t, []interface{}{"ltrim", "acatn:config:history", int64(0), int64(49)}, h.cmds[2])
}

func TestSetAndPushUnbounded(t *testing.T) {
	c, h := capturingCache(t)

	require.NoError(t, c.SetAndPush(context.Background(), "k", "l", "v", 0))
	require.Len(t, h.cmds, 2)
	assert.Equal(t, "lpush", h.cmds[1][0])
}

func TestSetAndPushRejectsUnencodable(t *testing.T) {
	c, h := capturingCache(t)

	err := c.SetAndPush(context.Background(), "k", "l", func() {}, 1)
	require.Error(t, err)
	assert.Empty(t, h.cmds)
}

func TestEncode(t *testing.T) {
	b, err := encode("raw")
	require.NoError(t, err)
	assert.Equal(t, "raw", string(b))

	b, err = encode(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(b))

	_, err = encode(func() {})
	require.Error(t, err)
}
