package redis

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/go-cart/internal/cfg"
	"github.com/DRSN-tech/go-cart/pkg/clients"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T, ttl time.Duration) (*SlotRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c := &cfg.RedisCfg{
		Addr:        mr.Addr(),
		MaxRetries:  -1,
		DialTimeout: time.Second,
		Timeout:     time.Second,
		CartTTL:     ttl,
	}
	client := clients.NewRedisClient(c)
	t.Cleanup(func() { _ = client.Close() })

	return NewSlotRepo(client, c), mr
}

func TestSlotRepoMissingKey(t *testing.T) {
	repo, _ := newTestRepo(t, 0)

	v, ok, err := repo.Read(context.Background(), "session:a:cart")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSlotRepoWriteThenRead(t *testing.T) {
	repo, mr := newTestRepo(t, 0)
	ctx := context.Background()

	require.NoError(t, repo.Write(ctx, "session:a:cart", `[{"id":1,"price":10,"quantity":2}]`))

	v, ok, err := repo.Read(ctx, "session:a:cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1,"price":10,"quantity":2}]`, v)
	assert.True(t, mr.Exists("slot:session:a:cart"))
	assert.Zero(t, mr.TTL("slot:session:a:cart"))
}

func TestSlotRepoTTL(t *testing.T) {
	repo, mr := newTestRepo(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Write(ctx, "k", "[]"))
	assert.Equal(t, time.Hour, mr.TTL("slot:k"))

	mr.FastForward(2 * time.Hour)

	_, ok, err := repo.Read(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSlotRepoUnavailable(t *testing.T) {
	repo, mr := newTestRepo(t, 0)
	mr.Close()

	_, _, err := repo.Read(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, repo.Write(context.Background(), "k", "[]"))
}
