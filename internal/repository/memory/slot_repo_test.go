package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotRepoReadWrite(t *testing.T) {
	r := NewSlotRepo()
	ctx := context.Background()

	_, ok, err := r.Read(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Write(ctx, "cart", "[]"))
	require.NoError(t, r.Write(ctx, "cart", `[{"id":1}]`))

	v, ok, err := r.Read(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, v)
	assert.Equal(t, 1, r.Len())
}

func TestSlotRepoConcurrentWrites(t *testing.T) {
	r := NewSlotRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Write(ctx, "cart", "[]")
			_, _, _ = r.Read(ctx, "cart")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, r.Len())
}
