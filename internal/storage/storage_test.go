package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	store := NewMemory()

	if _, err := store.Get(ctx, "token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: '%v'", err)
	}

	if err := store.Set(ctx, "token", "abc"); err != nil {
		t.Fatalf("Expected no error, got: '%v'", err)
	}
	value, err := store.Get(ctx, "token")
	if err != nil {
		t.Fatalf("Expected no error, got: '%v'", err)
	}
	if value != "abc" {
		t.Errorf("Expected 'abc', got: '%s'", value)
	}

	// перезапись значения
	if err := store.Set(ctx, "token", "def"); err != nil {
		t.Fatalf("Expected no error, got: '%v'", err)
	}
	value, _ = store.Get(ctx, "token")
	if value != "def" {
		t.Errorf("Expected 'def', got: '%s'", value)
	}

	if err := store.Delete(ctx, "token"); err != nil {
		t.Fatalf("Expected no error, got: '%v'", err)
	}
	if _, err := store.Get(ctx, "token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got: '%v'", err)
	}
}

func TestSqliteStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewSqlite(path)
	if err != nil {
		t.Fatalf("Expected no error, got: '%v'", err)
	}

	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "Set and get token #1", key: "token", value: "jwt-value"},
		{name: "Set and get user #2", key: "user", value: `{"id":"1","username":"mda"}`},
		{name: "Overwrite token #3", key: "token", value: "jwt-value-2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.Set(ctx, tc.key, tc.value); err != nil {
				t.Fatalf("Expected no error, got: '%v'", err)
			}
			value, err := store.Get(ctx, tc.key)
			if err != nil {
				t.Fatalf("Expected no error, got: '%v'", err)
			}
			if value != tc.value {
				t.Errorf("Expected '%s', got: '%s'", tc.value, value)
			}
		})
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: '%v'", err)
	}
	if err := store.Delete(ctx, "token"); err != nil {
		t.Fatalf("Expected no error, got: '%v'", err)
	}
	if _, err := store.Get(ctx, "token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got: '%v'", err)
	}

	// значения переживают переоткрытие файла
	if err := store.Close(); err != nil {
		t.Fatalf("Expected no error, got: '%v'", err)
	}
	reopened, err := NewSqlite(path)
	if err != nil {
		t.Fatalf("Expected no error, got: '%v'", err)
	}
	defer reopened.Close()

	value, err := reopened.Get(ctx, "user")
	if err != nil {
		t.Fatalf("Expected no error, got: '%v'", err)
	}
	if value != `{"id":"1","username":"mda"}` {
		t.Errorf("Expected persisted user, got: '%s'", value)
	}
}
