package view

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/internal/usecase"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineItem(id int64, price string, qty int, color string) domain.LineItem {
	return *domain.NewLineItem(domain.NewNumericID(id), "Item <b>", decimal.RequireFromString(price), "https://img/x.jpg", qty, color)
}

func changeEvent(items ...domain.LineItem) *usecase.ChangeEvent {
	totals := domain.DefaultPricing().Compute(items)
	return usecase.NewChangeEvent("s", usecase.OpAdd, items, totals, time.Now())
}

func newTestBinder(t *testing.T, page *Page) *Binder {
	t.Helper()
	tmpl, err := NewTemplates()
	require.NoError(t, err)
	return NewBinder(page, tmpl, NewStepper(1, 10), logger.NewNopLogger())
}

func TestBinderRendersItemsAndSummary(t *testing.T) {
	page := NewCartPage()
	b := newTestBinder(t, page)

	b.CartChanged(context.Background(), changeEvent(lineItem(1, "10", 2, "black"), lineItem(2, "6", 1, "white")))

	html := string(page.HTML(RegionCartItems))
	assert.Equal(t, 2, strings.Count(html, `class="cart-item"`))
	assert.Contains(t, html, "Color: black")
	assert.Contains(t, html, "$20.00")
	assert.Contains(t, html, "Item &lt;b&gt;")
	assert.Contains(t, html, `/cart?confirm=delete&item=1`)
	assert.False(t, page.Visible(RegionEmptyCart))

	assert.Equal(t, "3", page.Text(RegionItemCount))
	assert.Equal(t, "$26.00", page.Text(RegionSubtotal))
	assert.Equal(t, "Free", page.Text(RegionShipping))
	assert.Equal(t, "$2.08", page.Text(RegionTax))
	assert.Equal(t, "$28.08", page.Text(RegionTotal))
	assert.True(t, page.Enabled(RegionCheckoutBtn))
	assert.Equal(t, "3", page.Text(RegionCartCount))
}

func TestBinderStepperButtonsAreUnclamped(t *testing.T) {
	page := NewCartPage()
	b := newTestBinder(t, page)

	b.RenderList([]domain.LineItem{lineItem(1, "10", 1, "black")})

	html := string(page.HTML(RegionCartItems))
	assert.Contains(t, html, `name="quantity" value="0"`)
	assert.Contains(t, html, `name="quantity" value="2"`)
}

func TestBinderEmptyCart(t *testing.T) {
	page := NewCartPage()
	b := newTestBinder(t, page)
	b.RenderList([]domain.LineItem{lineItem(1, "10", 1, "black")})

	b.CartChanged(context.Background(), changeEvent())

	assert.Empty(t, page.HTML(RegionCartItems))
	assert.True(t, page.Visible(RegionEmptyCart))
	assert.Equal(t, "0", page.Text(RegionItemCount))
	assert.Equal(t, "$5.99", page.Text(RegionShipping))
	assert.Equal(t, "$5.99", page.Text(RegionTotal))
	assert.False(t, page.Enabled(RegionCheckoutBtn))
	assert.Equal(t, "0", page.Text(RegionCartCount))
}

func TestBinderSkipsMissingRegions(t *testing.T) {
	page := NewProductPage()
	b := newTestBinder(t, page)

	assert.NotPanics(t, func() {
		b.CartChanged(context.Background(), changeEvent(lineItem(1, "5", 1, "black")))
	})

	assert.Equal(t, "1", page.Text(RegionCartCount))
	assert.False(t, page.Has(RegionCartItems))
	assert.Empty(t, page.Text(RegionSubtotal))
}

func TestDialogsPresenter(t *testing.T) {
	page := NewCartPage()
	d := NewDialogs(page)
	ctx := context.Background()

	d.Show(ctx, usecase.DialogDelete)
	assert.True(t, page.Visible(usecase.DialogDelete))

	d.Hide(ctx, usecase.DialogDelete)
	assert.False(t, page.Visible(usecase.DialogDelete))

	d.Notify(ctx, "Watch added to cart!")
	assert.True(t, page.Visible(RegionToast))
	assert.Equal(t, "Watch added to cart!", page.Text(RegionToast))

	d.Show(ctx, "missingModal")
	assert.False(t, page.Visible("missingModal"))
}
