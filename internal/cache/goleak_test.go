// SPDX-License-Identifier: MIT

package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	xclog "github.com/pooja61096/uscensus/internal/log"
)

func TestMemoryCacheClose_NoGoroutineLeak(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := NewMemoryCache(10 * time.Millisecond)
	c.Set("k", []byte("v"), time.Minute)

	closer, ok := c.(interface{ Close() error })
	require.True(t, ok, "janitor-backed cache must be closable")
	require.NoError(t, closer.Close())
}

func TestRedisCacheClose_NoGoroutineLeak(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c, err := NewRedisCache(RedisConfig{Addr: mr.Addr()}, xclog.WithComponent("test"))
	require.NoError(t, err)

	c.Set("k", []byte("v"), time.Minute)
	require.NoError(t, c.Close())
}

func TestNewRedisCacheUnreachable_NoGoroutineLeak(t *testing.T) {
	// go-redis's pool reconnect probe checks for pool closure only once per
	// second, so it can outlive goleak's retry window after Close; it is
	// self-terminating and not a leak (REVIEW_FINDINGS F5).
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent(),
		goleak.IgnoreAnyFunction("github.com/redis/go-redis/v9/internal/pool.(*ConnPool).tryDial"))

	_, err := NewRedisCache(RedisConfig{Addr: "127.0.0.1:1"}, xclog.WithComponent("test"))
	assert.Error(t, err, "connection refused must surface from the verification ping")
}
