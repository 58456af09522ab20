package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/omd/internal/domain"
)

// sessionStoreInMemory — простая in-memory реализация SessionStore для тестов
// и локальной разработки.
type sessionStoreInMemory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewSessionStore возвращает пустое in-memory хранилище сессии.
func NewSessionStore() domain.SessionStore {
	return &sessionStoreInMemory{values: make(map[string]string)}
}

// Get возвращает значение ключа или ErrSessionKeyNotFound.
func (s *sessionStoreInMemory) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return "", domain.ErrSessionKeyNotFound
	}
	return value, nil
}

// Set сохраняет значение ключа.
func (s *sessionStoreInMemory) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete удаляет один ключ.
func (s *sessionStoreInMemory) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Clear удаляет все ключи.
func (s *sessionStoreInMemory) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return nil
}

var _ domain.SessionStore = (*sessionStoreInMemory)(nil)
