package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxQuantity — наибольшее количество одной позиции. Та же граница
// проверяется при чтении слота.
const MaxQuantity = math.MaxInt32

// LineItem описывает одну позицию корзины: товар в конкретном цвете и его количество.
type LineItem struct {
	ID       ItemID
	Name     string
	Price    decimal.Decimal // цена за единицу, неотрицательная
	Image    string
	Quantity int
	Color    string
}

func NewLineItem(id ItemID, name string, price decimal.Decimal, image string, quantity int, color string) *LineItem {
	return &LineItem{
		ID:       id,
		Name:     name,
		Price:    price,
		Image:    image,
		Quantity: quantity,
		Color:    color,
	}
}

// SameKey сообщает, совпадает ли ключ слияния (id, color).
func (i LineItem) SameKey(other LineItem) bool {
	return i.ID.Equal(other.ID) && i.Color == other.Color
}

// LineTotal — price × quantity без округления.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
