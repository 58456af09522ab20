package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vladislavdragonenkov/omd/internal/domain"
)

// sessionStoreFile хранит ключи сессии в JSON-файле — аналог localStorage браузера.
// Запись идёт через временный файл и rename, чтобы файл всегда был целым.
type sessionStoreFile struct {
	mu   sync.Mutex
	path string
}

// NewSessionStore возвращает файловое хранилище сессии по указанному пути.
func NewSessionStore(path string) (domain.SessionStore, error) {
	if path == "" {
		return nil, errors.New("session store path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}
	return &sessionStoreFile{path: path}, nil
}

// Get возвращает значение ключа или ErrSessionKeyNotFound.
func (s *sessionStoreFile) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok {
		return "", domain.ErrSessionKeyNotFound
	}
	return value, nil
}

// Set сохраняет значение ключа.
func (s *sessionStoreFile) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// Delete удаляет один ключ; отсутствие ключа ошибкой не считается.
func (s *sessionStoreFile) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

// Clear удаляет все ключи вместе с файлом.
func (s *sessionStoreFile) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *sessionStoreFile) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		// Повреждённый файл равносилен отсутствию сессии.
		return map[string]string{}, nil
	}
	return values, nil
}

func (s *sessionStoreFile) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session values: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

var _ domain.SessionStore = (*sessionStoreFile)(nil)
