package domain

import "time"

// OrderKind — явный дискриминант варианта заказа.
// Заказ принадлежит ровно одному из двух списков и никогда им не смешивается.
type OrderKind string

const (
	// OrderKindPending — заказ из общего списка ресторана, ещё не подтверждён и не отклонён.
	OrderKindPending OrderKind = "pending"
	// OrderKindBranch — заказ, привязанный к выбранному филиалу, приходит постранично с сервера.
	OrderKindBranch OrderKind = "branch"
)

// OrderStatus описывает жизненный цикл филиального заказа.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRejected  OrderStatus = "rejected"
)

// IsValid проверяет, что статус входит в фиксированный перечень.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRejected:
		return true
	}
	return false
}

// ViewMode выбирает, какой из двух списков заказов активен.
type ViewMode string

const (
	// ViewModePending — общий список ресторана, пагинируется целиком на клиенте.
	ViewModePending ViewMode = "pending"
	// ViewModeBranch — список филиала, запрашивается постранично у сервера.
	ViewModeBranch ViewMode = "branch"
)

// IsValid проверяет известность режима отображения.
func (m ViewMode) IsValid() bool {
	return m == ViewModePending || m == ViewModeBranch
}

// Order агрегирует общую форму двух вариантов заказа.
// Kind задаёт вариант явно: у pending-заказов поле Status всегда пустое,
// они считаются "ожидающими" самим фактом нахождения в pending-списке.
type Order struct {
	Kind          OrderKind
	Tag           string
	CustomerName  string
	TotalMinor    int64
	CreatedAt     time.Time
	TableName     string
	Notes         string
	OrderTypeName string
	OrderTypeCode string
	Status        OrderStatus
}

// BranchPage — одна страница филиальных заказов с серверным счётчиком общего количества.
type BranchPage struct {
	Items      []Order
	TotalItems int
}
