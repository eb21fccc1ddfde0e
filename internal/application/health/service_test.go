package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func okDB() Pinger { return pingerFunc(func(context.Context) error { return nil }) }

func setupRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return rdb
}

func TestCollectHealth_NoDependencies(t *testing.T) {
	result := CollectHealth(context.Background(), nil, nil, Environment{Env: "test"})
	assert.Equal(t, StatusUnhealthy, result.Status)
	assert.False(t, result.Database.Connected)
	assert.NotEmpty(t, result.Database.Error)
	assert.False(t, result.Redis.Configured)
	assert.Equal(t, 0, result.Traffic.TotalRequests)
	assert.Equal(t, "test", result.Environment.Env)
}

func TestCollectHealth_HealthyNeedsDatabaseURLAndPing(t *testing.T) {
	ctx := context.Background()
	result := CollectHealth(ctx, nil, okDB(), Environment{HasDatabaseURL: true})
	assert.Equal(t, StatusHealthy, result.Status)
	assert.True(t, result.Database.Connected)
	assert.NotNil(t, result.Database.PingMs)

	result = CollectHealth(ctx, nil, okDB(), Environment{HasDatabaseURL: false})
	assert.Equal(t, StatusUnhealthy, result.Status)

	failing := pingerFunc(func(context.Context) error { return errors.New("connection refused") })
	result = CollectHealth(ctx, nil, failing, Environment{HasDatabaseURL: true})
	assert.Equal(t, StatusUnhealthy, result.Status)
	assert.Equal(t, "connection refused", result.Database.Error)
}

func TestCollectHealth_WithMiniredis(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	result := CollectHealth(ctx, rdb, okDB(), Environment{HasDatabaseURL: true})
	assert.True(t, result.Redis.Connected)
	assert.Equal(t, 0, result.Traffic.TotalRequests)
	assert.Equal(t, "100", result.Traffic.SuccessRate)

	require.NoError(t, rdb.Set(ctx, KeyReqTotal, "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, KeyReqErrors, "2", 0).Err())
	require.NoError(t, rdb.Set(ctx, KeyResTime, "150.5", 0).Err())
	require.NoError(t, rdb.Set(ctx, KeyResCount, "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, KeyLastReq, `{"method":"GET","path":"/api/jobs/global"}`, 0).Err())

	result = CollectHealth(ctx, rdb, okDB(), Environment{HasDatabaseURL: true})
	assert.Equal(t, 10, result.Traffic.TotalRequests)
	assert.Equal(t, 2, result.Traffic.FailedCount)
	assert.Equal(t, 8, result.Traffic.SuccessCount)
	assert.Equal(t, "80.0", result.Traffic.SuccessRate)
	assert.Equal(t, "15.05", result.Traffic.AvgResponseTime)
	assert.Equal(t, "/api/jobs/global", result.Traffic.LastRequest["path"])
}

func TestResetTraffic(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	require.NoError(t, rdb.Set(ctx, KeyReqTotal, "5", 0).Err())

	now := time.UnixMilli(1_700_000_000_000)
	require.NoError(t, ResetTraffic(ctx, rdb, now))

	_, err := rdb.Get(ctx, KeyReqTotal).Result()
	assert.ErrorIs(t, err, redis.Nil)
	start, err := rdb.Get(ctx, KeyStartTime).Result()
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", start)
}

func TestErrorLog_Capped(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	for i := 0; i < ErrorLogSize+5; i++ {
		require.NoError(t, RecordError(ctx, rdb, ErrorEntry{Path: "/api/jobs/global", Status: 500, Message: "boom"}))
	}
	entries, err := RecentErrors(ctx, rdb)
	require.NoError(t, err)
	assert.Len(t, entries, ErrorLogSize)
	assert.Equal(t, 500, entries[0].Status)
}
