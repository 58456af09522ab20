package domain

import "errors"

var (
	// ErrBranchRequired — операция требует выбранный филиал.
	ErrBranchRequired = errors.New("branch_id is required")
	// ErrOrderTagRequired — операция требует тег заказа.
	ErrOrderTagRequired = errors.New("order tag is required")
	// ErrInvalidViewMode — неизвестный режим отображения списка.
	ErrInvalidViewMode = errors.New("invalid view mode")
	// ErrInvalidOrderStatus — статус вне фиксированного перечня.
	ErrInvalidOrderStatus = errors.New("invalid order status")
	// ErrRejectReasonRequired — отклонение заказа без причины блокируется до сетевого вызова.
	ErrRejectReasonRequired = errors.New("reject reason is required")
	// ErrUnauthorized — апстрим отверг учётные данные.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSessionExpired — локальная сессия отсутствует или просрочена.
	ErrSessionExpired = errors.New("session expired")
	// ErrSessionKeyNotFound возвращается хранилищем сессии для отсутствующего ключа.
	ErrSessionKeyNotFound = errors.New("session key not found")
	// ErrFetchInFlight — выборка для этой конфигурации уже выполняется.
	ErrFetchInFlight = errors.New("fetch already in flight")
)

// IsUnauthorized проверяет, является ли ошибка отказом в авторизации.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
