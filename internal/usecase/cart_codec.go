package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/shopspring/decimal"
)

// storedLineItem — схема одной позиции в слоте.
type storedLineItem struct {
	ID       domain.ItemID `json:"id"`
	Name     string        `json:"name"`
	Price    json.Number   `json:"price"`
	Image    string        `json:"image"`
	Quantity int           `json:"quantity"`
	Color    string        `json:"color"`
}

// loadedLineItem — та же схема при чтении: числа читаются сырыми, чтобы
// отличить число от строки.
type loadedLineItem struct {
	ID       domain.ItemID   `json:"id"`
	Name     string          `json:"name"`
	Price    json.RawMessage `json:"price"`
	Image    string          `json:"image"`
	Quantity json.RawMessage `json:"quantity"`
	Color    string          `json:"color"`
}

// EncodeCart сериализует позиции в JSON-массив слота.
func EncodeCart(items []domain.LineItem) (string, error) {
	stored := make([]storedLineItem, 0, len(items))
	for _, item := range items {
		stored = append(stored, storedLineItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    json.Number(item.Price.String()),
			Image:    item.Image,
			Quantity: item.Quantity,
			Color:    item.Color,
		})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return "", e.Wrap("EncodeCart", err)
	}

	return string(data), nil
}

// DecodeCart разбирает значение слота. Любое несоответствие схеме отвергает
// значение целиком (e.ErrCorruptCart). Отсутствующий цвет заменяется на defaultColor.
func DecodeCart(raw string, defaultColor string) ([]domain.LineItem, error) {
	const op = "DecodeCart"

	var loaded []loadedLineItem
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %v", e.ErrCorruptCart, err))
	}

	items := make([]domain.LineItem, 0, len(loaded))
	for i, l := range loaded {
		item, err := l.toEntity(defaultColor)
		if err != nil {
			return nil, e.Wrap(op, fmt.Errorf("%w: item %d: %v", e.ErrCorruptCart, i, err))
		}
		items = append(items, item)
	}

	return items, nil
}

func (l loadedLineItem) toEntity(defaultColor string) (domain.LineItem, error) {
	if l.ID.IsZero() {
		return domain.LineItem{}, fmt.Errorf("missing id")
	}

	price, err := parseStoredPrice(l.Price)
	if err != nil {
		return domain.LineItem{}, err
	}

	quantity, err := parseStoredQuantity(l.Quantity)
	if err != nil {
		return domain.LineItem{}, err
	}

	color := l.Color
	if color == "" {
		color = defaultColor
	}

	return *domain.NewLineItem(l.ID, l.Name, price, l.Image, quantity, color), nil
}

func parseStoredPrice(raw json.RawMessage) (decimal.Decimal, error) {
	if !isJSONNumber(raw) {
		return decimal.Zero, fmt.Errorf("price must be a number")
	}

	price, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("price: %w", err)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("price must not be negative")
	}

	return price, nil
}

func parseStoredQuantity(raw json.RawMessage) (int, error) {
	if !isJSONNumber(raw) {
		return 0, fmt.Errorf("quantity must be a number")
	}

	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("quantity: %w", err)
	}
	if f != math.Trunc(f) || f < 1 || f > domain.MaxQuantity {
		return 0, fmt.Errorf("quantity must be an integer >= 1, got %v", f)
	}

	return int(f), nil
}

func isJSONNumber(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}

	c := raw[0]
	return c == '-' || (c >= '0' && c <= '9')
}
