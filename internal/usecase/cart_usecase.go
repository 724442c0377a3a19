package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
)

const checkoutNotice = "Redirecting to checkout page...\n\nIn a real application, this would take you to the payment process."

type subscription struct {
	id       int
	observer Observer
}

// CartStore — единственный владелец корзины в рамках одного просмотра страницы.
// Каждая изменяющая операция сразу пишет корзину в слот и уведомляет наблюдателей.
// Не предназначен для конкурентного использования.
type CartStore struct {
	sessionID string
	slot      SlotRepository
	presenter Presenter
	settings  CartSettings
	logger    logger.Logger
	now       func() time.Time

	cart      *domain.Cart
	observers []subscription
	nextSubID int
}

func NewCartStore(
	sessionID string,
	slot SlotRepository,
	presenter Presenter,
	settings CartSettings,
	logger logger.Logger,
) *CartStore {
	if presenter == nil {
		presenter = nopPresenter{}
	}

	return &CartStore{
		sessionID: sessionID,
		slot:      slot,
		presenter: presenter,
		settings:  settings,
		logger:    logger,
		now:       time.Now,
		cart:      domain.NewCart(),
	}
}

// Subscribe добавляет наблюдателя и возвращает функцию отписки.
func (s *CartStore) Subscribe(o Observer) func() {
	s.nextSubID++
	id := s.nextSubID
	s.observers = append(s.observers, subscription{id: id, observer: o})

	return func() {
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Initialize читает корзину из слота. Отсутствующее или повреждённое значение
// даёт пустую корзину; ошибка вызывающему не возвращается.
func (s *CartStore) Initialize(ctx context.Context) {
	s.cart = s.load(ctx)
	s.notify(ctx, OpInitialize)
}

// Add добавляет товар. Если у запроса есть id и позиция с тем же (id, color)
// уже в корзине, увеличивает её количество; иначе добавляет новую позицию.
func (s *CartStore) Add(ctx context.Context, req *AddItemReq) error {
	const op = "CartStore.Add"

	if req.Quantity < 1 {
		s.logger.Debugf("%s: ignoring quantity %d for %q", op, req.Quantity, req.Name)
		return nil
	}
	if req.Quantity > domain.MaxQuantity {
		return e.Wrap(op, e.ErrQuantityTooLarge)
	}

	color := req.Color
	if color == "" {
		color = s.settings.DefaultColor
	}

	id := req.ID
	if id.IsZero() {
		id = s.generateID()
	}

	s.cart.Add(*domain.NewLineItem(id, req.Name, req.Price, req.Image, req.Quantity, color))

	err := s.commit(ctx, OpAdd)
	s.presenter.Show(ctx, DialogAddedToCart)
	if err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Remove удаляет все позиции с данным id, цвет не учитывается.
func (s *CartStore) Remove(ctx context.Context, id domain.ItemID) error {
	const op = "CartStore.Remove"

	s.cart.RemoveByID(id)
	if err := s.commit(ctx, OpRemove); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// UpdateQuantity меняет количество первой позиции с данным id.
// quantity <= 0 равносильно Remove. Неизвестный id — ничего не делает.
func (s *CartStore) UpdateQuantity(ctx context.Context, id domain.ItemID, quantity int) error {
	const op = "CartStore.UpdateQuantity"

	if !s.cart.HasID(id) {
		return nil
	}

	if quantity <= 0 {
		return s.Remove(ctx, id)
	}
	if quantity > domain.MaxQuantity {
		return e.Wrap(op, e.ErrQuantityTooLarge)
	}

	s.cart.SetQuantity(id, quantity)
	if err := s.commit(ctx, OpUpdateQuantity); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (s *CartStore) Clear(ctx context.Context) error {
	const op = "CartStore.Clear"

	s.cart.Clear()
	if err := s.commit(ctx, OpClear); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Checkout — заглушка оформления: ничего не проводит, только показывает уведомление
// для непустой корзины.
func (s *CartStore) Checkout(ctx context.Context) *CheckoutRes {
	if s.cart.IsEmpty() {
		return NewCheckoutRes(false, "")
	}

	s.logger.Infof("checkout requested: session=%s items=%d", s.sessionID, s.cart.ItemCount())
	s.presenter.Show(ctx, DialogCheckout)

	return NewCheckoutRes(true, checkoutNotice)
}

func (s *CartStore) Items() []domain.LineItem {
	return s.cart.Items()
}

// ResolveID переводит id из URL в id позиции корзины. Сначала ищется позиция
// с тем же строковым видом id, иначе id разбирается как есть.
func (s *CartStore) ResolveID(raw string) (domain.ItemID, error) {
	const op = "CartStore.ResolveID"

	if id, ok := s.cart.LookupID(raw); ok {
		return id, nil
	}

	id, err := domain.ParseItemID(raw)
	if err != nil {
		return domain.ItemID{}, e.Wrap(op, e.ErrInvalidItemID)
	}

	return id, nil
}

func (s *CartStore) Find(id domain.ItemID) (domain.LineItem, bool) {
	return s.cart.Find(id)
}

// Totals — чистая функция текущего состояния корзины.
func (s *CartStore) Totals() domain.Totals {
	return s.settings.Pricing.Compute(s.cart.Items())
}

// commit сохраняет корзину и уведомляет наблюдателей. Наблюдатели уведомляются
// и при ошибке записи: страница должна совпадать с состоянием в памяти.
func (s *CartStore) commit(ctx context.Context, op Operation) error {
	err := s.persist(ctx)
	s.notify(ctx, op)

	return err
}

func (s *CartStore) persist(ctx context.Context) error {
	const op = "CartStore.persist"

	data, err := EncodeCart(s.cart.Items())
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := s.slot.Write(ctx, s.settings.Key, data); err != nil {
		s.logger.Warnf("%s: cart write failed, session=%s: %v", op, s.sessionID, err)
		return e.Wrap(op, fmt.Errorf("%w: %w", e.ErrSlotUnavailable, err))
	}

	return nil
}

func (s *CartStore) load(ctx context.Context) *domain.Cart {
	const op = "CartStore.load"

	raw, ok, err := s.slot.Read(ctx, s.settings.Key)
	if err != nil {
		s.logger.Warnf("%s: cart read failed, starting empty, session=%s: %v", op, s.sessionID, err)
		return domain.NewCart()
	}
	if !ok {
		return domain.NewCart()
	}

	items, err := DecodeCart(raw, s.settings.DefaultColor)
	if err != nil {
		if errors.Is(err, e.ErrCorruptCart) {
			s.logger.Warnf("%s: discarding stored cart, session=%s: %v", op, s.sessionID, err)
		}
		return domain.NewCart()
	}

	return domain.NewCart(items...)
}

func (s *CartStore) notify(ctx context.Context, op Operation) {
	if len(s.observers) == 0 {
		return
	}

	items := s.cart.Items()
	ev := NewChangeEvent(s.sessionID, op, items, s.settings.Pricing.Compute(items), s.now().UTC())

	// копия: наблюдатель может отписаться во время уведомления
	subs := make([]subscription, len(s.observers))
	copy(subs, s.observers)
	for _, sub := range subs {
		sub.observer.CartChanged(ctx, ev)
	}
}

// generateID выдаёт id из текущего времени в миллисекундах, сдвигая его,
// пока он не станет уникальным в корзине.
func (s *CartStore) generateID() domain.ItemID {
	n := s.now().UnixMilli()
	for s.cart.HasID(domain.NewNumericID(n)) {
		n++
	}

	return domain.NewNumericID(n)
}
