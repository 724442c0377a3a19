package view

import "github.com/DRSN-tech/go-cart/internal/usecase"

// Идентификаторы регионов страниц.
const (
	RegionCartItems     = "cartItems"
	RegionEmptyCart     = "emptyCart"
	RegionItemCount     = "itemCount"
	RegionSubtotal      = "subtotal"
	RegionShipping      = "shipping"
	RegionTax           = "tax"
	RegionTotal         = "total"
	RegionCheckoutBtn   = "checkoutBtn"
	RegionCartCount     = "cartCount"
	RegionToast         = "toast"
	RegionModalQuantity = "modalQuantity"
	RegionCheckoutText  = "checkoutMessage"
	RegionQuantity      = "quantity"
	RegionMainImage     = "mainProductImage"
	RegionProductTitle  = "productTitle"
	RegionProductPrice  = "productPrice"
)

// Классы выбираемых элементов.
const (
	ClassColorOption = "color-option"
	ClassThumbnail   = "thumbnail"
	ClassActive      = "active"
)

var commonRegions = []string{RegionCartCount, RegionToast, usecase.DialogAddedToCart}

// NewProductPage — страница товара: бейдж, галерея, выбор цвета, степпер.
func NewProductPage() *Page {
	p := NewPage()
	for _, id := range commonRegions {
		p.AddRegion(id, id == RegionCartCount)
	}
	for _, id := range []string{RegionProductTitle, RegionProductPrice, RegionMainImage, RegionQuantity} {
		p.AddRegion(id, true)
	}

	return p
}

// NewCartPage — страница корзины: список, сводка, диалоги подтверждения.
func NewCartPage() *Page {
	p := NewPage()
	for _, id := range commonRegions {
		p.AddRegion(id, id == RegionCartCount)
	}
	for _, id := range []string{
		RegionCartItems, RegionItemCount, RegionSubtotal, RegionShipping,
		RegionTax, RegionTotal, RegionCheckoutBtn,
	} {
		p.AddRegion(id, true)
	}
	p.AddRegion(RegionEmptyCart, false)
	p.AddRegion(RegionModalQuantity, true)
	p.AddRegion(RegionCheckoutText, true)
	for _, id := range []string{usecase.DialogDelete, usecase.DialogClearCart, usecase.DialogQuantity, usecase.DialogCheckout} {
		p.AddRegion(id, false)
	}

	return p
}
