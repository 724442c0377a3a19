package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Func — сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

type entry struct {
	name string
	fn   Func
}

// Closer закрывает зарегистрированные ресурсы приложения (slot-клиенты,
// продюсер событий) в обратном порядке регистрации.
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	entries       []entry
	forcedTimeout time.Duration
}

// NewCloser создает новый экземпляр Closer.
// forcedTimeout — сколько ждать ресурсы, не успевшие закрыться до отмены контекста Close.
func NewCloser(forcedTimeout time.Duration) *Closer {
	const defaultForcedTimeout = 2 * time.Second

	if forcedTimeout == 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует функцию закрытия под именем name.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry{name: name, fn: f})
}

// AddFunc регистрирует закрытие без контекста и ошибки (например, pgxpool.Pool.Close).
func (c *Closer) AddFunc(name string, f func()) {
	c.Add(name, func(context.Context) error {
		f()
		return nil
	})
}

// Close последовательно закрывает ресурсы (LIFO). Если ctx отменяется раньше,
// оставшиеся ресурсы закрываются параллельно с forcedTimeout.
// Повторный вызов ничего не делает.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		entries := c.entries
		c.mu.Unlock()

		var errs []error
		for i := len(entries) - 1; i >= 0; i-- {
			done := make(chan error, 1)
			go func(en entry) {
				done <- en.fn(ctx)
			}(entries[i])

			select {
			case cerr := <-done:
				if cerr != nil {
					errs = append(errs, fmt.Errorf("%s: %w", entries[i].name, cerr))
				}
			case <-ctx.Done():
				errs = append(errs, c.forceClose(entries[:i+1])...)
				err = fmt.Errorf("shutdown interrupted after %d/%d resources: %w",
					len(entries)-1-i, len(entries), errors.Join(errs...))
				return
			}
		}

		err = errors.Join(errs...)
	})

	return err
}

// forceClose параллельно закрывает оставшиеся ресурсы со своим таймаутом.
func (c *Closer) forceClose(entries []entry) []error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, en := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := en.fn(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("[FORCED] %s: %w", en.name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}
