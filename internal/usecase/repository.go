package usecase

import "context"

// SlotRepository — одно key-value хранилище строк с семантикой localStorage:
// Read возвращает ok=false, если ключа нет.
type SlotRepository interface {
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	Write(ctx context.Context, key string, value string) error
}
