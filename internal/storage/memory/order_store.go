package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/omd/internal/domain"
)

// OrderStore держит два параллельных списка заказов и активный режим отображения.
// Обновления — только целиковая замена списка, поэтому читатель видит либо
// полностью старое, либо полностью новое состояние, но не промежуточное.
type OrderStore struct {
	mu          sync.RWMutex
	mode        domain.ViewMode
	pending     []domain.Order
	branch      []domain.Order
	branchTotal int
}

// NewOrderStore возвращает пустое хранилище в режиме pending.
func NewOrderStore() *OrderStore {
	return &OrderStore{mode: domain.ViewModePending}
}

// Mode возвращает активный режим отображения.
func (s *OrderStore) Mode() domain.ViewMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetMode переключает активный список.
func (s *OrderStore) SetMode(mode domain.ViewMode) error {
	if !mode.IsValid() {
		return domain.ErrInvalidViewMode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	return nil
}

// ReplacePending атомарно заменяет общий список ожидающих заказов.
func (s *OrderStore) ReplacePending(orders []domain.Order) {
	copied := cloneOrders(orders)
	for i := range copied {
		copied[i].Kind = domain.OrderKindPending
		// У pending-варианта статуса нет: он задан принадлежностью к списку.
		copied[i].Status = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = copied
}

// ReplaceBranch атомарно заменяет страницу филиальных заказов и серверный счётчик.
func (s *OrderStore) ReplaceBranch(orders []domain.Order, totalItems int) {
	copied := cloneOrders(orders)
	for i := range copied {
		copied[i].Kind = domain.OrderKindBranch
	}
	if totalItems < 0 {
		totalItems = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.branch = copied
	s.branchTotal = totalItems
}

// Pending возвращает копию pending-списка.
func (s *OrderStore) Pending() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrders(s.pending)
}

// Branch возвращает копию текущей страницы филиальных заказов.
func (s *OrderStore) Branch() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrders(s.branch)
}

// BranchTotal возвращает серверное количество филиальных заказов.
func (s *OrderStore) BranchTotal() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.branchTotal
}

// Active возвращает копию списка, соответствующего активному режиму.
func (s *OrderStore) Active() ([]domain.Order, domain.ViewMode) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mode == domain.ViewModeBranch {
		return cloneOrders(s.branch), s.mode
	}
	return cloneOrders(s.pending), s.mode
}

// cloneOrders копирует срез, чтобы избежать непредсказуемых мутаций извне.
func cloneOrders(orders []domain.Order) []domain.Order {
	if orders == nil {
		return nil
	}
	copied := make([]domain.Order, len(orders))
	copy(copied, orders)
	return copied
}
