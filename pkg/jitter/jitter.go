// Package jitter добавляет случайность в интервалы повторных попыток,
// чтобы одновременные запросы к хранилищу корзины не повторялись синхронно.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// Duration возвращает продолжительность с применённым джиттером.
// Результат находится в диапазоне [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	randMutex.Lock()
	f := globalRand.Float64()
	randMutex.Unlock()

	return apply(d, jitterFactor, f)
}

// DurationWithSeed делает то же, что Duration, но с заданным генератором.
func DurationWithSeed(d time.Duration, jitterFactor float64, rng *rand.Rand) time.Duration {
	return apply(d, jitterFactor, rng.Float64())
}

// ExponentialBackoff вычисляет задержку для попытки attempt (с нуля):
// base*2^attempt, но не больше max, плюс джиттер.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	return Duration(backoff(base, max, attempt), jitterFactor)
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}

	return d
}

func apply(d time.Duration, jitterFactor, f float64) time.Duration {
	if jitterFactor <= 0 {
		return d
	}

	return d + time.Duration(f*jitterFactor*float64(d))
}
