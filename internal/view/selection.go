package view

import "strings"

// SelectByClass делает активным один элемент из группы class: тот, для которого
// match вернул true. Если совпадений нет, активный элемент не меняется.
func SelectByClass(target RenderTarget, class string, match func(*Element) bool) *Element {
	group := target.QueryByClass(class)

	var selected *Element
	for _, el := range group {
		if match(el) {
			selected = el
			break
		}
	}
	if selected == nil {
		return ActiveByClass(target, class)
	}

	for _, el := range group {
		el.RemoveClass(ClassActive)
	}
	selected.AddClass(ClassActive)

	return selected
}

// ActiveByClass возвращает активный элемент группы или nil.
func ActiveByClass(target RenderTarget, class string) *Element {
	for _, el := range target.QueryByClass(class) {
		if el.HasClass(ClassActive) {
			return el
		}
	}
	return nil
}

// ByAttr — предикат для SelectByClass по data-атрибуту.
func ByAttr(key, value string) func(*Element) bool {
	return func(el *Element) bool {
		return el.Attr(key) == value
	}
}

// MainImageFor переводит URL миниатюры в URL основного изображения.
func MainImageFor(thumbnailSrc string) string {
	return strings.Replace(thumbnailSrc, "w=100&h=100", "w=600&h=600", 1)
}
