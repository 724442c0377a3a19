package view

import (
	"strconv"
	"strings"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/shopspring/decimal"
)

// Money форматирует сумму для отображения: "$28.08".
func Money(d decimal.Decimal) string {
	return "$" + domain.FormatMoney(d)
}

// ParseMoney разбирает отображаемую цену ("$299.99" или "299.99").
func ParseMoney(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "$"))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
