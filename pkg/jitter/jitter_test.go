package jitter

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationStaysInRange(t *testing.T) {
	base := 100 * time.Millisecond
	for i := 0; i < 50; i++ {
		got := Duration(base, DefaultJitter)
		assert.GreaterOrEqual(t, got, base)
		assert.LessOrEqual(t, got, base+base/2)
	}
}

func TestDurationWithSeedIsDeterministic(t *testing.T) {
	a := DurationWithSeed(time.Second, 0.5, rand.New(rand.NewSource(42)))
	b := DurationWithSeed(time.Second, 0.5, rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)
}

func TestBackoffDoublesUntilMax(t *testing.T) {
	base, max := 10*time.Millisecond, 70*time.Millisecond

	assert.Equal(t, 10*time.Millisecond, backoff(base, max, 0))
	assert.Equal(t, 20*time.Millisecond, backoff(base, max, 1))
	assert.Equal(t, 40*time.Millisecond, backoff(base, max, 2))
	assert.Equal(t, max, backoff(base, max, 3))
	assert.Equal(t, max, backoff(base, max, 10))
}

func TestZeroJitterFactor(t *testing.T) {
	assert.Equal(t, time.Second, Duration(time.Second, 0))
}
