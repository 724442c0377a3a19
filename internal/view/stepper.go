package view

import (
	"strconv"
	"strings"
)

// Stepper — кнопки −/+ у поля количества на странице товара и в диалоге.
// Значение всегда в [Min, Max].
type Stepper struct {
	Min int
	Max int
}

func NewStepper(min, max int) Stepper {
	return Stepper{Min: min, Max: max}
}

func (s Stepper) Clamp(v int) int {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

func (s Stepper) Increase(v int) int {
	if v < s.Max {
		v++
	}
	return s.Clamp(v)
}

func (s Stepper) Decrease(v int) int {
	if v > s.Min {
		v--
	}
	return s.Clamp(v)
}

// Parse читает значение поля; нечисловой ввод даёт Min.
func (s Stepper) Parse(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return s.Min
	}
	return s.Clamp(v)
}

// Step применяет направление "inc" или "dec" к raw; иное значение только нормализует.
func (s Stepper) Step(raw, direction string) int {
	v := s.Parse(raw)
	switch direction {
	case "inc":
		return s.Increase(v)
	case "dec":
		return s.Decrease(v)
	default:
		return v
	}
}
