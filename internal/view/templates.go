package view

import (
	"embed"
	"html/template"
	"io"

	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// Имена шаблонов страниц.
const (
	TemplateProduct = "product"
	TemplateCart    = "cart"
)

// Templates — разобранные шаблоны страниц и фрагментов.
type Templates struct {
	t *template.Template
}

func NewTemplates() (*Templates, error) {
	t, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Templates{t: t}, nil
}

// MustTemplates паникует при ошибке разбора; шаблоны встроены в бинарник.
func MustTemplates() *Templates {
	t, err := NewTemplates()
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Templates) Render(w io.Writer, name string, data *PageData) error {
	if err := t.t.ExecuteTemplate(w, name, data); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func (t *Templates) ExecuteFragment(w io.Writer, name string, data any) error {
	return t.t.ExecuteTemplate(w, name, data)
}

// PageData — всё, что нужно шаблону страницы.
type PageData struct {
	Title         string
	Page          *Page
	BackURL       string
	Colors        []*Element
	Thumbnails    []*Element
	SelectedColor string
	SelectedImage string
	Recommended   []Recommended
	DeleteItemID  string
	EditItemID    string
}

// Recommended — карточка рекомендованного товара на странице корзины.
type Recommended struct {
	Name  string
	Price decimal.Decimal
	Image string
}

func (r Recommended) PriceLabel() string {
	return Money(r.Price)
}
