package usecase

import (
	"context"

	"github.com/DRSN-tech/go-cart/internal/domain"
)

// CartUC — операции корзины одного просмотра страницы.
type CartUC interface {
	Add(ctx context.Context, req *AddItemReq) error
	Remove(ctx context.Context, id domain.ItemID) error
	UpdateQuantity(ctx context.Context, id domain.ItemID, quantity int) error
	Clear(ctx context.Context) error
	Checkout(ctx context.Context) *CheckoutRes
	Items() []domain.LineItem
	Find(id domain.ItemID) (domain.LineItem, bool)
	ResolveID(raw string) (domain.ItemID, error)
	Totals() domain.Totals
	Subscribe(o Observer) func()
}

// CartOpener открывает корзину сессии: создаёт хранилище, подписывает
// наблюдателей и читает слот.
type CartOpener interface {
	Open(ctx context.Context, req *OpenCartReq) CartUC
}
