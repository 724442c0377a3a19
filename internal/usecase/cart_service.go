package usecase

import (
	"context"

	"github.com/DRSN-tech/go-cart/pkg/logger"
)

// CartService собирает CartStore для каждого просмотра страницы.
// observers — наблюдатели уровня приложения (например, публикация событий).
type CartService struct {
	slot      SlotRepository
	settings  CartSettings
	observers []Observer
	logger    logger.Logger
}

func NewCartService(slot SlotRepository, settings CartSettings, logger logger.Logger, observers ...Observer) *CartService {
	return &CartService{
		slot:      slot,
		settings:  settings,
		observers: observers,
		logger:    logger,
	}
}

// Open создаёт хранилище корзины сессии. Наблюдатели подписываются до чтения
// слота, поэтому Initialize уже обновляет счётчик на странице.
func (c *CartService) Open(ctx context.Context, req *OpenCartReq) CartUC {
	store := NewCartStore(
		req.SessionID,
		ScopeSlot(c.slot, req.SessionID),
		req.Presenter,
		c.settings,
		c.logger,
	)

	for _, o := range req.Observers {
		store.Subscribe(o)
	}
	for _, o := range c.observers {
		store.Subscribe(o)
	}

	store.Initialize(ctx)
	return store
}
