package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ItemID — идентификатор товара в корзине: число или строка.
// Число 1 и строка "1" — разные идентификаторы.
type ItemID struct {
	num     float64
	str     string
	numeric bool
	set     bool
}

func NewNumericID(n int64) ItemID {
	return ItemID{num: float64(n), numeric: true, set: true}
}

func NewStringID(s string) ItemID {
	return ItemID{str: s, set: true}
}

// ParseItemID разбирает идентификатор из URL: сначала как число, иначе как строку.
func ParseItemID(s string) (ItemID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ItemID{}, fmt.Errorf("empty item id")
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return ItemID{num: f, numeric: true, set: true}, nil
	}

	return NewStringID(s), nil
}

// IsZero сообщает, что идентификатор не задан.
func (id ItemID) IsZero() bool {
	return !id.set
}

func (id ItemID) IsNumeric() bool {
	return id.numeric
}

func (id ItemID) Equal(other ItemID) bool {
	if id.set != other.set || id.numeric != other.numeric {
		return false
	}
	if id.numeric {
		return id.num == other.num
	}

	return id.str == other.str
}

func (id ItemID) String() string {
	if !id.set {
		return ""
	}
	if id.numeric {
		return strconv.FormatFloat(id.num, 'f', -1, 64)
	}

	return id.str
}

func (id ItemID) MarshalJSON() ([]byte, error) {
	if !id.set {
		return []byte("null"), nil
	}
	if id.numeric {
		return []byte(id.String()), nil
	}

	return json.Marshal(id.str)
}

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ItemID{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return fmt.Errorf("empty string id")
		}
		*id = NewStringID(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("id must be a number or a string: %w", err)
	}
	*id = ItemID{num: f, numeric: true, set: true}

	return nil
}
