package domain

import "errors"

var (
	// ErrCategoryNotFound возвращается, если категория не найдена.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrProductNotFound возвращается, если товар не найден.
	ErrProductNotFound = errors.New("product not found")
	// ErrCustomerNotFound возвращается, если клиент не найден.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInsufficientStock — запрошенное количество превышает остаток на складе.
	ErrInsufficientStock = errors.New("insufficient stock")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrQuantityInvalid = errors.New("quantity must be greater than zero")
	// Ошибка при неизвестном статусе заказа.
	ErrStatusInvalid = errors.New("unknown order status")
	// Ошибка при некорректном лимите выборки (<= 0).
	ErrLimitInvalid = errors.New("limit must be greater than zero")
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// ErrDuplicate — нарушение уникального ограничения в хранилище.
	ErrDuplicate = errors.New("duplicate record")
	// ErrStoreUnavailable — база данных недоступна или соединение потеряно.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrTimeout — операция не уложилась в отведённое время.
	ErrTimeout = errors.New("operation timed out")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsNotFound проверяет, относится ли ошибка к классу "сущность не найдена".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}

// IsValidation проверяет, относится ли ошибка к классу некорректного ввода.
func IsValidation(err error) bool {
	return errors.Is(err, ErrQuantityInvalid) ||
		errors.Is(err, ErrStatusInvalid) ||
		errors.Is(err, ErrLimitInvalid) ||
		errors.Is(err, ErrCustomerRequired)
}
