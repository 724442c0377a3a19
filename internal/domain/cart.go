package domain

// Cart — упорядоченный список позиций. Ключ уникальности — пара (id, color).
type Cart struct {
	items []LineItem
}

func NewCart(items ...LineItem) *Cart {
	c := &Cart{}
	for _, item := range items {
		c.Add(item)
	}

	return c
}

// Items возвращает копию позиций в порядке добавления.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Add добавляет позицию. Если позиция с тем же (id, color) уже есть,
// её количество увеличивается на item.Quantity, но не выше MaxQuantity.
func (c *Cart) Add(item LineItem) {
	item.Quantity = capQuantity(item.Quantity)
	for i := range c.items {
		if c.items[i].SameKey(item) {
			if c.items[i].Quantity > MaxQuantity-item.Quantity {
				c.items[i].Quantity = MaxQuantity
			} else {
				c.items[i].Quantity += item.Quantity
			}
			return
		}
	}

	c.items = append(c.items, item)
}

// RemoveByID удаляет все позиции с данным id независимо от цвета.
// Возвращает количество удалённых позиций.
func (c *Cart) RemoveByID(id ItemID) int {
	kept := c.items[:0]
	removed := 0
	for _, item := range c.items {
		if item.ID.Equal(id) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	c.items = kept

	return removed
}

// SetQuantity выставляет количество первой позиции с данным id.
// quantity <= 0 удаляет позиции с этим id. false — позиции нет.
func (c *Cart) SetQuantity(id ItemID, quantity int) bool {
	idx := c.indexOf(id)
	if idx < 0 {
		return false
	}

	if quantity <= 0 {
		c.RemoveByID(id)
		return true
	}

	c.items[idx].Quantity = capQuantity(quantity)
	return true
}

// Find возвращает первую позицию с данным id.
func (c *Cart) Find(id ItemID) (LineItem, bool) {
	idx := c.indexOf(id)
	if idx < 0 {
		return LineItem{}, false
	}

	return c.items[idx], true
}

// LookupID ищет первую позицию, чей id в строковом виде равен raw.
// Так id из URL находит и числовой, и строковый идентификатор.
func (c *Cart) LookupID(raw string) (ItemID, bool) {
	for _, item := range c.items {
		if item.ID.String() == raw {
			return item.ID, true
		}
	}

	return ItemID{}, false
}

func (c *Cart) HasID(id ItemID) bool {
	return c.indexOf(id) >= 0
}

func (c *Cart) Clear() {
	c.items = nil
}

// ItemCount — сумма количеств всех позиций.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}

	return n
}

func (c *Cart) indexOf(id ItemID) int {
	for i, item := range c.items {
		if item.ID.Equal(id) {
			return i
		}
	}

	return -1
}

func capQuantity(q int) int {
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}
