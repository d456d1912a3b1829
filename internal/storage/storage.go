package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("key not found")
)

// KeyValue - интерфейс хранилища "ключ-значение". Два времени жизни:
// долговременное (Sqlite, переживает перезапуск) и сессионное
// (Memory, очищается при завершении процесса).
type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
