package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	CreateTable = `CREATE TABLE IF NOT EXISTS kv (
						key TEXT PRIMARY KEY,
						value TEXT NOT NULL,
						updated_at INTEGER NOT NULL);`
	GetValue = `SELECT value FROM kv WHERE key = ?;`
	SetValue = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
					ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`
	DeleteValue = `DELETE FROM kv WHERE key = ?;`
)

// Sqlite - долговременное хранилище "ключ-значение" в локальном файле
type Sqlite struct {
	DB *sql.DB
}

// NewSqlite - конструктор долговременного хранилища
func NewSqlite(path string) (*Sqlite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// один писатель, читатели не конкурируют
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(CreateTable); err != nil {
		db.Close()
		return nil, err
	}
	return &Sqlite{DB: db}, nil
}

func (s *Sqlite) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, GetValue, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Sqlite) Set(ctx context.Context, key string, value string) error {
	_, err := s.DB.ExecContext(ctx, SetValue, key, value, time.Now().Unix())
	return err
}

func (s *Sqlite) Delete(ctx context.Context, key string) error {
	_, err := s.DB.ExecContext(ctx, DeleteValue, key)
	return err
}

// Close - закрывает соединение с базой
func (s *Sqlite) Close() error {
	return s.DB.Close()
}
