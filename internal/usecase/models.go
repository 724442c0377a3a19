package usecase

import (
	"time"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/shopspring/decimal"
)

// Operation — операция хранилища, вызвавшая изменение.
type Operation string

const (
	OpInitialize     Operation = "initialize"
	OpAdd            Operation = "add"
	OpRemove         Operation = "remove"
	OpUpdateQuantity Operation = "update_quantity"
	OpClear          Operation = "clear"
)

// CartSettings — параметры хранилища корзины, общие для всех сессий.
type CartSettings struct {
	Key          string // ключ слота, по умолчанию "cart"
	DefaultColor string
	Pricing      domain.Pricing
}

// AddItemReq — запрос на добавление товара. ID может быть пустым.
type AddItemReq struct {
	ID       domain.ItemID
	Name     string
	Price    decimal.Decimal
	Image    string
	Quantity int
	Color    string
}

// ChangeEvent — снимок корзины после операции.
type ChangeEvent struct {
	SessionID  string
	Operation  Operation
	Items      []domain.LineItem
	Totals     domain.Totals
	OccurredAt time.Time
}

// CheckoutRes — результат заглушки оформления заказа.
type CheckoutRes struct {
	Accepted bool
	Message  string
}

// OpenCartReq — запрос на открытие корзины для одного просмотра страницы.
type OpenCartReq struct {
	SessionID string
	Presenter Presenter
	Observers []Observer
}

// MAPPERS
func NewAddItemReq(id domain.ItemID, name string, price decimal.Decimal, image string, quantity int, color string) *AddItemReq {
	return &AddItemReq{
		ID:       id,
		Name:     name,
		Price:    price,
		Image:    image,
		Quantity: quantity,
		Color:    color,
	}
}

func NewChangeEvent(sessionID string, op Operation, items []domain.LineItem, totals domain.Totals, at time.Time) *ChangeEvent {
	return &ChangeEvent{
		SessionID:  sessionID,
		Operation:  op,
		Items:      items,
		Totals:     totals,
		OccurredAt: at,
	}
}

func NewCheckoutRes(accepted bool, message string) *CheckoutRes {
	return &CheckoutRes{
		Accepted: accepted,
		Message:  message,
	}
}

func NewOpenCartReq(sessionID string, presenter Presenter, observers ...Observer) *OpenCartReq {
	return &OpenCartReq{
		SessionID: sessionID,
		Presenter: presenter,
		Observers: observers,
	}
}
