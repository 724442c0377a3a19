package slot

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/DRSN-tech/go-cart/internal/usecase"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/jitter"
	"github.com/DRSN-tech/go-cart/pkg/logger"
)

// RetryingSlot повторяет чтение и запись слота при временных сетевых сбоях
// с экспоненциальной задержкой и джиттером. Каждая попытка ограничена opTimeout.
type RetryingSlot struct {
	next      usecase.SlotRepository
	attempts  int
	base      time.Duration
	max       time.Duration
	opTimeout time.Duration
	logger    logger.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewRetryingSlot(
	next usecase.SlotRepository,
	attempts int,
	base, max, opTimeout time.Duration,
	logger logger.Logger,
) *RetryingSlot {
	if attempts < 1 {
		attempts = 1
	}

	return &RetryingSlot{
		next:      next,
		attempts:  attempts,
		base:      base,
		max:       max,
		opTimeout: opTimeout,
		logger:    logger,
		sleep:     sleepCtx,
	}
}

func (s *RetryingSlot) Read(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)

	err := s.do(ctx, "RetryingSlot.Read", func(ctx context.Context) error {
		var err error
		value, ok, err = s.next.Read(ctx, key)
		return err
	})
	if err != nil {
		return "", false, err
	}

	return value, ok, nil
}

func (s *RetryingSlot) Write(ctx context.Context, key string, value string) error {
	return s.do(ctx, "RetryingSlot.Write", func(ctx context.Context) error {
		return s.next.Write(ctx, key, value)
	})
}

func (s *RetryingSlot) do(ctx context.Context, op string, call func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < s.attempts; attempt++ {
		err = s.attempt(ctx, call)
		if err == nil {
			return nil
		}

		if !isRetryableError(err) || attempt == s.attempts-1 || ctx.Err() != nil {
			break
		}

		sleepTime := jitter.ExponentialBackoff(s.base, s.max, attempt, jitter.DefaultJitter)
		s.logger.Warnf("%s failed, retrying in %v (attempt %d): %v", op, sleepTime, attempt+1, err)

		if serr := s.sleep(ctx, sleepTime); serr != nil {
			return e.Wrap(op, serr)
		}
	}

	return e.Wrap(op, err)
}

func (s *RetryingSlot) attempt(ctx context.Context, call func(ctx context.Context) error) error {
	if s.opTimeout <= 0 {
		return call(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	return call(ctx)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"connection reset",
		"broken pipe",
		"no such host",
		"too many connections",
		"slowdown",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}

	return false
}

var _ usecase.SlotRepository = (*RetryingSlot)(nil)

// String для логов при старте.
func (s *RetryingSlot) String() string {
	return fmt.Sprintf("retrying(attempts=%d, base=%v, max=%v, timeout=%v)", s.attempts, s.base, s.max, s.opTimeout)
}
