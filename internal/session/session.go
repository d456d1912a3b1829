package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/incomelogins-commits/cryptomine-frontend/internal/logger"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/models"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/storage"
)

// Ключи долговременного хранилища
const (
	TokenKey = "token"
	UserKey  = "user"
)

// Store - хранит текущую личность пользователя и токен доступа.
// Личность живёт в памяти, токен и её снимок - в долговременном хранилище.
type Store struct {
	mu       sync.Mutex
	identity *models.User
	Durable  storage.KeyValue
}

// NewStore - конструктор хранилища сессии
func NewStore(durable storage.KeyValue) *Store {
	return &Store{Durable: durable}
}

// Restore - восстановление сессии при старте. Наличие сохранённого токена
// означает условную аутентификацию: токен не проверяется заранее,
// протухший обнаружится при первом защищённом вызове.
func (s *Store) Restore(ctx context.Context) bool {
	token, err := s.Durable.Get(ctx, TokenKey)
	if err != nil || token == "" {
		return false
	}

	raw, err := s.Durable.Get(ctx, UserKey)
	if err == nil {
		var user models.User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			logger.Warn("Failed to decode persisted user", err)
		} else {
			s.mu.Lock()
			s.identity = &user
			s.mu.Unlock()
		}
	}
	return true
}

// Login - сохраняет личность в памяти и токен в долговременном хранилище.
// Предыдущая личность всегда замещается, активна максимум одна.
func (s *Store) Login(ctx context.Context, user models.User, token string) error {
	if err := s.Durable.Set(ctx, TokenKey, token); err != nil {
		return err
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.Durable.Set(ctx, UserKey, string(raw)); err != nil {
		return err
	}

	s.mu.Lock()
	s.identity = &user
	s.mu.Unlock()

	logger.Info("User logged in:", user.Username)
	return nil
}

// Logout - чисто клиентская инвалидация: личность и токен удаляются,
// сервер не уведомляется.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()

	if err := s.Durable.Delete(ctx, TokenKey); err != nil {
		return err
	}
	return s.Durable.Delete(ctx, UserKey)
}

// Identity - текущая личность пользователя, nil если не восстановлена
func (s *Store) Identity() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Token - читает токен из хранилища при каждом вызове, а не кэширует:
// после Logout последующие вызовы API сразу уходят без токена.
func (s *Store) Token(ctx context.Context) string {
	token, err := s.Durable.Get(ctx, TokenKey)
	if err != nil {
		return ""
	}
	return token
}

// Authenticated - есть ли сохранённый токен
func (s *Store) Authenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}
