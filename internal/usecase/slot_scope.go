package usecase

import "context"

// scopedSlot изолирует ключи одной сессии, как localStorage изолирует origin.
type scopedSlot struct {
	slot   SlotRepository
	prefix string
}

// ScopeSlot возвращает слот, в котором ключ key хранится как "session:<scope>:<key>".
// Пустой scope оставляет ключи как есть.
func ScopeSlot(slot SlotRepository, scope string) SlotRepository {
	if scope == "" {
		return slot
	}

	return &scopedSlot{slot: slot, prefix: "session:" + scope + ":"}
}

func (s *scopedSlot) Read(ctx context.Context, key string) (string, bool, error) {
	return s.slot.Read(ctx, s.prefix+key)
}

func (s *scopedSlot) Write(ctx context.Context, key string, value string) error {
	return s.slot.Write(ctx, s.prefix+key, value)
}
