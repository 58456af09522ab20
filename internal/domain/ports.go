package domain

import "context"

// OrderGateway описывает взаимодействие с удалённым API заказов.
// API — внешний коллаборатор, возвращающий JSON-коллекции; его устройство здесь не моделируется.
type OrderGateway interface {
	// FetchPending возвращает общий список ожидающих заказов ресторана (без пагинации).
	FetchPending(ctx context.Context, branchID string) ([]Order, error)
	// FetchBranchPage возвращает одну страницу филиальных заказов с серверным счётчиком.
	FetchBranchPage(ctx context.Context, branchID string, page, pageSize int) (BranchPage, error)
	// Confirm подтверждает заказ.
	Confirm(ctx context.Context, orderTag string) error
	// Reject отклоняет заказ с указанием причины.
	Reject(ctx context.Context, orderTag, reason string) error
	// Cancel отменяет заказ.
	Cancel(ctx context.Context, orderTag string) error
	// UpdateStatus переводит заказ в новый статус.
	UpdateStatus(ctx context.Context, orderTag string, status OrderStatus) error
}

// SessionStore — локальное key-value хранилище данных сессии.
type SessionStore interface {
	// Get возвращает значение ключа или ErrSessionKeyNotFound.
	Get(key string) (string, error)
	// Set сохраняет значение ключа.
	Set(key, value string) error
	// Delete удаляет один ключ; отсутствие ключа ошибкой не считается.
	Delete(key string) error
	// Clear удаляет все ключи сессии.
	Clear() error
}
