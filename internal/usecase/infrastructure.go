package usecase

import "context"

// Идентификаторы диалогов страницы.
const (
	DialogAddedToCart = "successModal"
	DialogDelete      = "deleteModal"
	DialogClearCart   = "clearCartModal"
	DialogQuantity    = "quantityModal"
	DialogCheckout    = "checkoutModal"
)

// Presenter показывает диалоги и уведомления. На состояние корзины не влияет.
type Presenter interface {
	Show(ctx context.Context, dialogID string)
	Hide(ctx context.Context, dialogID string)
	Notify(ctx context.Context, message string)
}

// Observer получает снимок корзины после каждой операции хранилища.
// Вызывается синхронно и не должен обращаться к хранилищу.
type Observer interface {
	CartChanged(ctx context.Context, ev *ChangeEvent)
}

// ObserverFunc адаптирует функцию к Observer.
type ObserverFunc func(ctx context.Context, ev *ChangeEvent)

func (f ObserverFunc) CartChanged(ctx context.Context, ev *ChangeEvent) {
	f(ctx, ev)
}

type nopPresenter struct{}

func (nopPresenter) Show(context.Context, string)   {}
func (nopPresenter) Hide(context.Context, string)   {}
func (nopPresenter) Notify(context.Context, string) {}
