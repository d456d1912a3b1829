package storage

import (
	"context"
	"sync"
)

// Memory - сессионное хранилище "ключ-значение" в памяти процесса.
// Содержимое теряется при завершении процесса, это ожидаемо.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory - конструктор сессионного хранилища
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *Memory) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
