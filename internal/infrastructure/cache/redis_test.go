package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Empty(t *testing.T) {
	rdb, err := Open("  ")
	require.NoError(t, err)
	assert.Nil(t, rdb)
	assert.NoError(t, Ping(context.Background(), rdb))
}

func TestOpen_InvalidURL(t *testing.T) {
	_, err := Open("http://not-redis")
	assert.Error(t, err)
}

func TestOpen_Miniredis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb, err := Open("redis://" + mr.Addr())
	require.NoError(t, err)
	defer rdb.Close()
	assert.NoError(t, Ping(context.Background(), rdb))
}
