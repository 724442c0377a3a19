package memory

import (
	"context"
	"sync"
)

// SlotRepo — слот корзины в памяти процесса. Данные теряются при перезапуске.
type SlotRepo struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewSlotRepo() *SlotRepo {
	return &SlotRepo{data: make(map[string]string)}
}

func (r *SlotRepo) Read(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[key]
	return v, ok, nil
}

func (r *SlotRepo) Write(_ context.Context, key string, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = value
	return nil
}

// Len возвращает количество сохранённых ключей.
func (r *SlotRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.data)
}
