package orders

import (
	"context"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/omd/internal/domain"
	"github.com/vladislavdragonenkov/omd/internal/service/fetch"
	"github.com/vladislavdragonenkov/omd/internal/service/view"
	"github.com/vladislavdragonenkov/omd/internal/storage/memory"
)

// Manager держит всё производное состояние панели заказов:
// активный филиал, режим отображения, критерии фильтрации, сортировку и пагинацию.
// Каждое действие атомарно меняет состояние и при необходимости
// передаёт координатору новую конфигурацию выборки.
//
// Manager реализует domain.FetchSink: завершённые выборки
// приходят сюда же и заменяют списки в хранилище целиком.
type Manager struct {
	mu sync.Mutex

	store       *memory.OrderStore
	gateway     domain.OrderGateway
	coordinator *fetch.Coordinator
	logger      *log.Entry

	branchID   string
	mode       domain.ViewMode
	criteria   domain.FilterOptions
	sort       domain.SortSpec
	pagination domain.Pagination

	lastErr error
}

var _ domain.FetchSink = (*Manager)(nil)

// Snapshot — согласованный срез состояния для отрисовки.
// Orders содержит ровно те заказы, что видны на текущей странице.
type Snapshot struct {
	BranchID      string
	Mode          domain.ViewMode
	Orders        []domain.Order
	FilteredTotal int
	Pagination    domain.Pagination
	Criteria      domain.FilterOptions
	Sort          domain.SortSpec
	Loading       bool
	LastErr       error
}

// NewManager создаёт менеджер поверх хранилища и шлюза.
// Координатор подключается отдельно через BindCoordinator,
// потому что сам менеджер служит ему приёмником результатов.
func NewManager(store *memory.OrderStore, gateway domain.OrderGateway, logger *log.Entry) *Manager {
	return &Manager{
		store:      store,
		gateway:    gateway,
		logger:     logger.WithField("component", "order-manager"),
		mode:       domain.ViewModePending,
		criteria:   domain.DefaultFilters(),
		sort:       domain.DefaultSort(),
		pagination: domain.NewPagination(0),
	}
}

// BindCoordinator связывает менеджер с координатором выборок.
func (m *Manager) BindCoordinator(c *fetch.Coordinator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coordinator = c
}

// SelectBranch выбирает активный филиал и перечитывает данные с первой страницы.
func (m *Manager) SelectBranch(ctx context.Context, branchID string) error {
	if branchID == "" {
		return domain.ErrBranchRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.branchID = branchID
	m.pagination.SetPage(1)
	return m.pushConfigLocked(ctx)
}

// SetViewMode переключает активный список заказов.
func (m *Manager) SetViewMode(ctx context.Context, mode domain.ViewMode) error {
	if !mode.IsValid() {
		return domain.ErrInvalidViewMode
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.SetMode(mode); err != nil {
		return err
	}
	m.mode = mode
	m.pagination.SetPage(1)
	return m.pushConfigLocked(ctx)
}

// SetSearch задаёт поисковую подстроку. Смена фильтра возвращает на первую страницу.
func (m *Manager) SetSearch(ctx context.Context, search string) error {
	return m.updateFilters(ctx, func(f *domain.FilterOptions) {
		f.Search = strings.TrimSpace(search)
	})
}

// SetStatus задаёт фильтр по статусу филиальных заказов.
func (m *Manager) SetStatus(ctx context.Context, status domain.StatusFilter) error {
	return m.updateFilters(ctx, func(f *domain.FilterOptions) {
		f.Status = status
	})
}

// SetDateRange задаёт включительный диапазон по дате создания.
func (m *Manager) SetDateRange(ctx context.Context, from, to *time.Time) error {
	return m.updateFilters(ctx, func(f *domain.FilterOptions) {
		f.DateFrom = from
		f.DateTo = to
	})
}

// SetPriceRange задаёт границы по сумме заказа, каждая опциональна.
func (m *Manager) SetPriceRange(ctx context.Context, min, max *int64) error {
	return m.updateFilters(ctx, func(f *domain.FilterOptions) {
		f.PriceMin = min
		f.PriceMax = max
	})
}

// SetCustomerName задаёт точечный фильтр по имени клиента.
func (m *Manager) SetCustomerName(ctx context.Context, name string) error {
	return m.updateFilters(ctx, func(f *domain.FilterOptions) {
		f.CustomerName = strings.TrimSpace(name)
	})
}

// SetTableName задаёт точечный фильтр по названию стола.
func (m *Manager) SetTableName(ctx context.Context, table string) error {
	return m.updateFilters(ctx, func(f *domain.FilterOptions) {
		f.TableName = strings.TrimSpace(table)
	})
}

// SetOrderType задаёт фильтр по типу заказа (имя или код).
func (m *Manager) SetOrderType(ctx context.Context, orderType string) error {
	return m.updateFilters(ctx, func(f *domain.FilterOptions) {
		f.OrderType = strings.TrimSpace(orderType)
	})
}

// ClearFilters сбрасывает все критерии к значениям по умолчанию.
func (m *Manager) ClearFilters(ctx context.Context) error {
	return m.updateFilters(ctx, func(f *domain.FilterOptions) {
		*f = domain.DefaultFilters()
	})
}

// SetSort задаёт ключ и направление сортировки.
// Сортировка не меняет состав списка, поэтому страница не сбрасывается.
func (m *Manager) SetSort(ctx context.Context, spec domain.SortSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sort = spec
	return m.pushConfigLocked(ctx)
}

// ChangePage переходит на страницу n с зажимом в допустимый диапазон.
func (m *Manager) ChangePage(ctx context.Context, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pagination.SetPage(n)
	return m.pushConfigLocked(ctx)
}

// ChangeItemsPerPage меняет размер страницы и возвращает на первую страницу.
func (m *Manager) ChangeItemsPerPage(ctx context.Context, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pagination.SetItemsPerPage(n)
	return m.pushConfigLocked(ctx)
}

// Refresh принудительно перечитывает активный список, минуя дедупликацию.
func (m *Manager) Refresh(ctx context.Context) {
	m.mu.Lock()
	c := m.coordinator
	m.mu.Unlock()

	if c != nil {
		c.Refresh(ctx)
	}
}

// ConfirmOrder подтверждает заказ и перечитывает активный список.
func (m *Manager) ConfirmOrder(ctx context.Context, orderTag string) error {
	if orderTag == "" {
		return domain.ErrOrderTagRequired
	}
	if err := m.gateway.Confirm(ctx, orderTag); err != nil {
		return err
	}
	m.logger.WithField("order_tag", orderTag).Info("order confirmed")
	m.Refresh(ctx)
	return nil
}

// RejectOrder отклоняет заказ. Пустая причина блокируется до сетевого вызова.
func (m *Manager) RejectOrder(ctx context.Context, orderTag, reason string) error {
	if orderTag == "" {
		return domain.ErrOrderTagRequired
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.ErrRejectReasonRequired
	}
	if err := m.gateway.Reject(ctx, orderTag, reason); err != nil {
		return err
	}
	m.logger.WithField("order_tag", orderTag).Info("order rejected")
	m.Refresh(ctx)
	return nil
}

// CancelOrder отменяет заказ и перечитывает активный список.
func (m *Manager) CancelOrder(ctx context.Context, orderTag string) error {
	if orderTag == "" {
		return domain.ErrOrderTagRequired
	}
	if err := m.gateway.Cancel(ctx, orderTag); err != nil {
		return err
	}
	m.logger.WithField("order_tag", orderTag).Info("order cancelled")
	m.Refresh(ctx)
	return nil
}

// UpdateOrderStatus переводит заказ в новый статус.
func (m *Manager) UpdateOrderStatus(ctx context.Context, orderTag string, status domain.OrderStatus) error {
	if orderTag == "" {
		return domain.ErrOrderTagRequired
	}
	if !status.IsValid() {
		return domain.ErrInvalidOrderStatus
	}
	if err := m.gateway.UpdateStatus(ctx, orderTag, status); err != nil {
		return err
	}
	m.logger.WithFields(log.Fields{"order_tag": orderTag, "status": status}).Info("order status updated")
	m.Refresh(ctx)
	return nil
}

// Snapshot возвращает согласованный срез состояния для отрисовки.
// В pending-режиме фильтрация и пагинация выполняются полностью на клиенте,
// в branch-режиме страницы приходят с сервера, а фильтры сужают текущую страницу.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		BranchID: m.branchID,
		Mode:     m.mode,
		Criteria: m.criteria,
		Sort:     m.sort,
		LastErr:  m.lastErr,
	}
	if m.coordinator != nil {
		snap.Loading = !m.coordinator.Idle()
	}

	switch m.mode {
	case domain.ViewModeBranch:
		filtered := view.Filter(m.store.Branch(), m.mode, m.criteria, m.sort)
		m.pagination.Recalculate(m.store.BranchTotal())
		snap.Orders = filtered
		snap.FilteredTotal = len(filtered)
	default:
		filtered := view.Filter(m.store.Pending(), m.mode, m.criteria, m.sort)
		m.pagination.Recalculate(len(filtered))
		snap.Orders = view.Paginate(filtered, m.pagination)
		snap.FilteredTotal = len(filtered)
	}
	snap.Pagination = m.pagination
	return snap
}

// updateFilters применяет мутацию критериев и сбрасывает страницу на первую.
func (m *Manager) updateFilters(ctx context.Context, mutate func(*domain.FilterOptions)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mutate(&m.criteria)
	m.pagination.SetPage(1)
	return m.pushConfigLocked(ctx)
}

// pushConfigLocked передаёт координатору текущую конфигурацию выборки.
// До выбора филиала конфигурации не существует, действие остаётся локальным.
func (m *Manager) pushConfigLocked(ctx context.Context) error {
	if m.coordinator == nil || m.branchID == "" {
		return nil
	}

	cfg := domain.FetchConfig{BranchID: m.branchID, Mode: m.mode}
	if m.mode == domain.ViewModeBranch {
		cfg.Page = m.pagination.CurrentPage
		cfg.PageSize = m.pagination.ItemsPerPage
	}
	return m.coordinator.Set(ctx, cfg)
}

// ApplyPending заменяет pending-список результатом завершённой выборки.
func (m *Manager) ApplyPending(cfg domain.FetchConfig, incoming []domain.Order) {
	m.store.ReplacePending(incoming)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = nil
	m.logger.WithFields(log.Fields{
		"branch_id": cfg.BranchID,
		"orders":    len(incoming),
	}).Debug("pending list replaced")
}

// ApplyBranchPage заменяет страницу филиальных заказов и серверный счётчик.
func (m *Manager) ApplyBranchPage(cfg domain.FetchConfig, page domain.BranchPage) {
	m.store.ReplaceBranch(page.Items, page.TotalItems)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = nil
	m.pagination.CurrentPage = cfg.Page
	m.pagination.Recalculate(page.TotalItems)
	m.logger.WithFields(log.Fields{
		"branch_id": cfg.BranchID,
		"page":      cfg.Page,
		"total":     page.TotalItems,
	}).Debug("branch page replaced")
}

// FetchFailed запоминает ошибку выборки для отображения пользователю.
// Данные предыдущей успешной выборки остаются на экране.
func (m *Manager) FetchFailed(cfg domain.FetchConfig, err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()

	entry := m.logger.WithFields(log.Fields{
		"branch_id": cfg.BranchID,
		"mode":      cfg.Mode,
	})
	if domain.IsUnauthorized(err) {
		entry.Warn("fetch rejected: unauthorized")
		return
	}
	entry.WithError(err).Error("fetch failed")
}
