package view

import (
	"bytes"
	"context"
	"html/template"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/internal/usecase"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/jimlawless/whereami"
)

const freeShippingLabel = "Free"

type rowView struct {
	ID        string
	Name      string
	Image     string
	Color     string
	Quantity  int
	Dec       int
	Inc       int
	Min       int
	Max       int
	LineTotal string
}

// Binder перерисовывает список, сводку и бейдж по снимку корзины.
// Хранилище не вызывает: всё берётся из события.
type Binder struct {
	target  RenderTarget
	tmpl    *Templates
	stepper Stepper
	logger  logger.Logger
}

func NewBinder(target RenderTarget, tmpl *Templates, stepper Stepper, logger logger.Logger) *Binder {
	return &Binder{
		target:  target,
		tmpl:    tmpl,
		stepper: stepper,
		logger:  logger,
	}
}

// CartChanged реализует usecase.Observer.
func (b *Binder) CartChanged(_ context.Context, ev *usecase.ChangeEvent) {
	b.RenderList(ev.Items)
	b.RenderSummary(ev.Totals)
	b.UpdateBadge(ev.Totals.ItemCount)
}

// RenderList показывает заглушку для пустой корзины или по строке на позицию.
func (b *Binder) RenderList(items []domain.LineItem) {
	if !b.target.Has(RegionCartItems) {
		return
	}

	if len(items) == 0 {
		b.target.SetHTML(RegionCartItems, "")
		b.target.SetVisible(RegionEmptyCart, true)
		return
	}

	b.target.SetVisible(RegionEmptyCart, false)

	html, err := b.renderRows(items)
	if err != nil {
		b.logger.Errorf(err, "failed to render cart rows")
		return
	}
	b.target.SetHTML(RegionCartItems, html)
}

// RenderSummary пишет суммы; доставка 0 отображается как "Free".
func (b *Binder) RenderSummary(t domain.Totals) {
	b.target.SetText(RegionItemCount, itoa(t.ItemCount))
	b.target.SetText(RegionSubtotal, Money(t.Subtotal))
	if t.FreeShipping() {
		b.target.SetText(RegionShipping, freeShippingLabel)
	} else {
		b.target.SetText(RegionShipping, Money(t.Shipping))
	}
	b.target.SetText(RegionTax, Money(t.Tax))
	b.target.SetText(RegionTotal, Money(t.Total))
	b.target.SetEnabled(RegionCheckoutBtn, t.ItemCount > 0)
}

func (b *Binder) UpdateBadge(count int) {
	b.target.SetText(RegionCartCount, itoa(count))
}

func (b *Binder) renderRows(items []domain.LineItem) (template.HTML, error) {
	rows := make([]rowView, 0, len(items))
	for _, item := range items {
		rows = append(rows, rowView{
			ID:        item.ID.String(),
			Name:      item.Name,
			Image:     item.Image,
			Color:     item.Color,
			Quantity:  item.Quantity,
			Dec:       item.Quantity - 1,
			Inc:       item.Quantity + 1,
			Min:       b.stepper.Min,
			Max:       b.stepper.Max,
			LineTotal: domain.FormatMoney(item.LineTotal()),
		})
	}

	var buf bytes.Buffer
	if err := b.tmpl.ExecuteFragment(&buf, "cart_rows", rows); err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return template.HTML(buf.String()), nil
}
