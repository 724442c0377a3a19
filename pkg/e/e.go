package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки хранилища корзины
	ErrSlotUnavailable   = fmt.Errorf("cart slot unavailable")
	ErrCorruptCart       = fmt.Errorf("persisted cart does not match schema")
	ErrUnknownSlotDriver = fmt.Errorf("unknown slot driver")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest = fmt.Errorf("bad request")
	ErrMissingFields    = fmt.Errorf("missing required fields")
	ErrInvalidPrice     = fmt.Errorf("invalid price")
	ErrPricePrecision   = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidQuantity  = fmt.Errorf("quantity must be an integer")
	ErrQuantityTooLarge = fmt.Errorf("quantity is too large")
	ErrInvalidItemID    = fmt.Errorf("invalid item id")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
