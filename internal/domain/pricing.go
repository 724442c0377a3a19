package domain

import "github.com/shopspring/decimal"

// moneyPlaces — число знаков после запятой в отображаемых суммах.
const moneyPlaces = 2

// Pricing описывает правила расчёта доставки и налога.
type Pricing struct {
	FreeShippingThreshold decimal.Decimal // доставка бесплатна, если subtotal строго больше порога
	ShippingFee           decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultPricing: бесплатная доставка от 25, иначе 5.99; налог 8%.
func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: decimal.NewFromInt(25),
		ShippingFee:           decimal.RequireFromString("5.99"),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

// Totals — производные от корзины суммы. Денежные поля округлены до 2 знаков.
type Totals struct {
	ItemCount int
	Subtotal  decimal.Decimal
	Shipping  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

// FreeShipping сообщает, что доставка после округления равна нулю.
func (t Totals) FreeShipping() bool {
	return t.Shipping.IsZero()
}

// Compute считает суммы по позициям. Накопление идёт без округления,
// округляется только результат.
func (p Pricing) Compute(items []LineItem) Totals {
	subtotal := decimal.Zero
	count := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
		count += item.Quantity
	}

	shipping := p.ShippingFee
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(p.TaxRate)
	total := subtotal.Add(shipping).Add(tax)

	return Totals{
		ItemCount: count,
		Subtotal:  subtotal.Round(moneyPlaces),
		Shipping:  shipping.Round(moneyPlaces),
		Tax:       tax.Round(moneyPlaces),
		Total:     total.Round(moneyPlaces),
	}
}

// FormatMoney форматирует сумму с двумя знаками, например "28.08".
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(moneyPlaces)
}
