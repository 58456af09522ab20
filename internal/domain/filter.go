package domain

import "time"

// StatusFilter — фильтр по статусу; значение StatusFilterAll снимает ограничение.
type StatusFilter string

// StatusFilterAll означает отсутствие ограничения по статусу.
const StatusFilterAll StatusFilter = "all"

// FilterOptions — набор независимых предикатов для фильтрации заказов.
// Пустая строка, StatusFilterAll и nil-границы означают "без ограничения".
type FilterOptions struct {
	// Search ищет подстроку сразу по имени клиента, тегу заказа, столу и заметкам.
	Search string
	// Status применяется только к филиальным заказам: у pending-заказов статуса нет.
	Status StatusFilter
	// DateFrom/DateTo задают включительный диапазон по дате создания.
	// DateTo трактуется как конец календарного дня (23:59:59.999).
	DateFrom *time.Time
	DateTo   *time.Time
	// PriceMin/PriceMax — границы по сумме заказа в минимальных единицах, каждая опциональна.
	PriceMin *int64
	PriceMax *int64
	// Точечные текстовые предикаты (подстрока без учёта регистра).
	CustomerName string
	TableName    string
	OrderType    string
}

// DefaultFilters возвращает критерии без единого активного ограничения.
func DefaultFilters() FilterOptions {
	return FilterOptions{Status: StatusFilterAll}
}

// HasActive сообщает, отличается ли хотя бы одно поле от значения по умолчанию.
func (f FilterOptions) HasActive() bool {
	if f.Search != "" || f.CustomerName != "" || f.TableName != "" || f.OrderType != "" {
		return true
	}
	if f.Status != "" && f.Status != StatusFilterAll {
		return true
	}
	if f.DateFrom != nil || f.DateTo != nil {
		return true
	}
	if f.PriceMin != nil || f.PriceMax != nil {
		return true
	}
	return false
}

// SortField задаёт единственный ключ сортировки.
type SortField string

const (
	SortFieldCustomerName SortField = "customer_name"
	SortFieldTotalPrice   SortField = "total_price"
	SortFieldCreatedAt    SortField = "created_at"
)

// SortDirection — направление сортировки.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec описывает активную сортировку отфильтрованного списка.
// Неизвестное поле не меняет порядок элементов.
type SortSpec struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSort — сортировка при старте: свежие заказы сверху.
func DefaultSort() SortSpec {
	return SortSpec{Field: SortFieldCreatedAt, Direction: SortDesc}
}
