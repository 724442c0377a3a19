package http

import (
	"strconv"

	"github.com/DRSN-tech/go-cart/internal/view"
	"github.com/shopspring/decimal"
)

// Витрина демо-магазина: товар по умолчанию и рекомендации.
const (
	defaultProductName  = "Premium Wireless Headphones"
	defaultProductPrice = "299.99"
	defaultProductImage = "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=600&h=600&fit=crop"
	recommendedColor    = "default"
)

var productColors = []struct{ value, label string }{
	{"black", "Black"},
	{"white", "White"},
	{"blue", "Blue"},
	{"red", "Red"},
}

var productThumbnails = []string{
	"https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=100&h=100&fit=crop",
	"https://images.unsplash.com/photo-1583394838336-acd977736f90?w=100&h=100&fit=crop",
	"https://images.unsplash.com/photo-1484704849700-f032a568e944?w=100&h=100&fit=crop",
}

var recommendedProducts = []view.Recommended{
	{Name: "Smart Watch", Price: decimal.RequireFromString("199.99"), Image: "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=300&h=300&fit=crop"},
	{Name: "Bluetooth Speaker", Price: decimal.RequireFromString("79.99"), Image: "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?w=300&h=300&fit=crop"},
	{Name: "Phone Case", Price: decimal.RequireFromString("19.99"), Image: "https://images.unsplash.com/photo-1601784551446-20c9e07cdbdb?w=300&h=300&fit=crop"},
	{Name: "USB-C Cable", Price: decimal.RequireFromString("12.99"), Image: "https://images.unsplash.com/photo-1583863788434-e58a36330cf0?w=300&h=300&fit=crop"},
}

// colorElements строит варианты цвета; активен selected.
func colorElements(page *view.Page, selected string) {
	for i, c := range productColors {
		classes := []string{view.ClassColorOption}
		if i == 0 {
			classes = append(classes, view.ClassActive)
		}
		page.AddElement(view.NewElement("color-"+c.value, c.label, map[string]string{"color": c.value}, classes...))
	}
	view.SelectByClass(page, view.ClassColorOption, view.ByAttr("color", selected))
}

func thumbnailElements(page *view.Page, selected string) {
	for i, src := range productThumbnails {
		classes := []string{view.ClassThumbnail}
		if i == 0 {
			classes = append(classes, view.ClassActive)
		}
		page.AddElement(view.NewElement("thumb-"+strconv.Itoa(i+1), "", map[string]string{"src": src}, classes...))
	}
	view.SelectByClass(page, view.ClassThumbnail, view.ByAttr("src", selected))
}

// thumbnailForImage ищет миниатюру, из которой получено основное изображение.
func thumbnailForImage(image string) string {
	for _, src := range productThumbnails {
		if view.MainImageFor(src) == image {
			return src
		}
	}
	return ""
}
