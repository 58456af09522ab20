package domain

// FetchConfig — конфигурация сетевой выборки, единица дедупликации.
// Две подряд идущие пополевно равные конфигурации не должны породить второй запрос.
type FetchConfig struct {
	BranchID string
	Mode     ViewMode
	Page     int
	PageSize int
}

// Equal сравнивает конфигурации пополевно.
func (c FetchConfig) Equal(other FetchConfig) bool {
	return c == other
}

// FetchSink принимает результаты завершённых выборок.
// Координатор вызывает методы вне своих внутренних блокировок,
// реализация не должна синхронно дёргать координатор в ответ.
type FetchSink interface {
	// ApplyPending заменяет pending-список целиком.
	ApplyPending(cfg FetchConfig, orders []Order)
	// ApplyBranchPage заменяет страницу филиальных заказов и серверный счётчик.
	ApplyBranchPage(cfg FetchConfig, page BranchPage)
	// FetchFailed сообщает об ошибке выборки для отображения пользователю.
	FetchFailed(cfg FetchConfig, err error)
}
