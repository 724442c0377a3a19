package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrInvalidQuantity):
		return http.StatusBadRequest, e.ErrInvalidQuantity.Error()
	case errors.Is(err, e.ErrQuantityTooLarge):
		return http.StatusBadRequest, e.ErrQuantityTooLarge.Error()
	case errors.Is(err, e.ErrInvalidItemID):
		return http.StatusBadRequest, e.ErrInvalidItemID.Error()
	case errors.Is(err, e.ErrSlotUnavailable):
		return http.StatusServiceUnavailable, e.ErrSlotUnavailable.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writePageError отвечает на ошибку HTML-формы текстом, а не JSON.
func writePageError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	http.Error(w, msg, code)
}

// parsePrice разбирает цену вида "599.99", "600" или "$299.99".
// Ошибка, если:
// - неверный формат или отрицательное значение
// - больше 2 знаков после запятой
// - больше разумного предела (10^9)
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return decimal.Zero, e.Wrap("price is empty", e.ErrMissingFields)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, e.ErrInvalidPrice
	}

	return validatePrice(d)
}

func validatePrice(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return decimal.Zero, e.ErrInvalidPrice
	}

	if d.GreaterThan(decimal.NewFromInt(1_000_000_000)) {
		return decimal.Zero, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return decimal.Zero, e.ErrPricePrecision
	}

	return d, nil
}

// parseQuantity разбирает целое количество. Знак не проверяется:
// количество <= 0 означает удаление позиции.
func parseQuantity(s string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), e.ErrInvalidQuantity)
	}

	return q, nil
}

// itemIDParam возвращает id позиции из URL. Тип id (число или строка)
// определяет корзина: см. resolveItemID.
func itemIDParam(r *http.Request) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	if raw == "" {
		return "", e.Wrap(whereami.WhereAmI(), e.ErrInvalidItemID)
	}

	return raw, nil
}
