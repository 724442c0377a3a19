package view

import (
	"html/template"
	"slices"
	"strings"
)

// RenderTarget — DOM-подобная цель отрисовки. Обращения к отсутствующим
// регионам ничего не делают.
type RenderTarget interface {
	Has(id string) bool
	SetText(id, text string)
	SetHTML(id string, html template.HTML)
	SetVisible(id string, visible bool)
	SetEnabled(id string, enabled bool)
	QueryByClass(class string) []*Element
}

// Region — именованная область страницы (аналог элемента с id).
type Region struct {
	ID      string
	Text    string
	HTML    template.HTML
	Visible bool
	Enabled bool
}

// Element — выбираемый элемент страницы: вариант цвета, миниатюра.
type Element struct {
	ID      string
	Label   string
	Classes []string
	Data    map[string]string
}

func NewElement(id, label string, data map[string]string, classes ...string) *Element {
	return &Element{
		ID:      id,
		Label:   label,
		Classes: classes,
		Data:    data,
	}
}

func (el *Element) HasClass(class string) bool {
	return slices.Contains(el.Classes, class)
}

func (el *Element) AddClass(class string) {
	if !el.HasClass(class) {
		el.Classes = append(el.Classes, class)
	}
}

func (el *Element) RemoveClass(class string) {
	el.Classes = slices.DeleteFunc(el.Classes, func(c string) bool { return c == class })
}

// Attr возвращает data-атрибут элемента.
func (el *Element) Attr(key string) string {
	return el.Data[key]
}

// ClassList — классы через пробел для атрибута class.
func (el *Element) ClassList() string {
	return strings.Join(el.Classes, " ")
}

// Page — состояние одной отрисовываемой страницы. Шаблоны читают его через
// Text/HTML/Visible/Enabled.
type Page struct {
	regions  map[string]*Region
	elements []*Element
}

func NewPage() *Page {
	return &Page{regions: make(map[string]*Region)}
}

// AddRegion объявляет регион. Повторное объявление возвращает существующий.
func (p *Page) AddRegion(id string, visible bool) *Region {
	if r, ok := p.regions[id]; ok {
		return r
	}

	r := &Region{ID: id, Visible: visible, Enabled: true}
	p.regions[id] = r
	return r
}

func (p *Page) AddElement(el *Element) {
	p.elements = append(p.elements, el)
}

func (p *Page) Region(id string) (*Region, bool) {
	r, ok := p.regions[id]
	return r, ok
}

func (p *Page) Has(id string) bool {
	_, ok := p.regions[id]
	return ok
}

func (p *Page) SetText(id, text string) {
	if r, ok := p.regions[id]; ok {
		r.Text = text
	}
}

func (p *Page) SetHTML(id string, html template.HTML) {
	if r, ok := p.regions[id]; ok {
		r.HTML = html
	}
}

func (p *Page) SetVisible(id string, visible bool) {
	if r, ok := p.regions[id]; ok {
		r.Visible = visible
	}
}

func (p *Page) SetEnabled(id string, enabled bool) {
	if r, ok := p.regions[id]; ok {
		r.Enabled = enabled
	}
}

func (p *Page) QueryByClass(class string) []*Element {
	var out []*Element
	for _, el := range p.elements {
		if el.HasClass(class) {
			out = append(out, el)
		}
	}
	return out
}

func (p *Page) Text(id string) string {
	if r, ok := p.regions[id]; ok {
		return r.Text
	}
	return ""
}

func (p *Page) HTML(id string) template.HTML {
	if r, ok := p.regions[id]; ok {
		return r.HTML
	}
	return ""
}

func (p *Page) Visible(id string) bool {
	if r, ok := p.regions[id]; ok {
		return r.Visible
	}
	return false
}

func (p *Page) Enabled(id string) bool {
	if r, ok := p.regions[id]; ok {
		return r.Enabled
	}
	return false
}

var _ RenderTarget = (*Page)(nil)
