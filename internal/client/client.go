package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/logger"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/models"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource - источник токена доступа. Читается при каждом запросе,
// пустая строка означает запрос без авторизации.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Gateway - типизированный фасад удалённого API
type Gateway interface {
	Register(ctx context.Context, request models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, request models.LoginRequest) (*models.AuthResponse, error)
	GetStats(ctx context.Context) (*models.StatsResponse, error)
	StartSession(ctx context.Context, request models.SessionRequest) (*models.SessionResponse, error)
	GetTransactions(ctx context.Context) ([]models.Transaction, error)
	Withdraw(ctx context.Context, amount decimal.Decimal) (*models.WithdrawResponse, error)
	ConnectWallet(ctx context.Context, address string) error
	CreateSupportRequest(ctx context.Context, request models.SupportRequest) error
	TriggerJackpot(ctx context.Context) error
}

func InitCircuitBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "mining-api",
		Timeout: 30 * time.Second, // через 30 сек пробуем подключиться
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 5 попыток достучатся до сервиса
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Infof("Circuit Breaker '%s': %s -> %s", name, from, to)
		},
	})
}

type Client struct {
	baseURL    string
	httpClient HTTPClient
	tokens     TokenSource
	limiter    *RateLimiter
	breaker    *gobreaker.CircuitBreaker
}

func NewClient(baseURL string, httpClient HTTPClient, tokens TokenSource) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		tokens:     tokens,
		limiter:    NewRateLimiter(),
		breaker:    InitCircuitBreaker(),
	}
}

func (c *Client) Register(ctx context.Context, request models.RegisterRequest) (*models.AuthResponse, error) {
	var result models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Login(ctx context.Context, request models.LoginRequest) (*models.AuthResponse, error) {
	var result models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetStats(ctx context.Context) (*models.StatsResponse, error) {
	var result models.StatsResponse
	if err := c.get(ctx, "/api/mining/stats", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) StartSession(ctx context.Context, request models.SessionRequest) (*models.SessionResponse, error) {
	var result models.SessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/mining/session", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetTransactions(ctx context.Context) ([]models.Transaction, error) {
	var result []models.Transaction
	if err := c.get(ctx, "/api/mining/transactions", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Withdraw(ctx context.Context, amount decimal.Decimal) (*models.WithdrawResponse, error) {
	var result models.WithdrawResponse
	if err := c.do(ctx, http.MethodPost, "/api/wallet/withdraw", models.WithdrawRequest{Amount: amount}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ConnectWallet(ctx context.Context, address string) error {
	return c.do(ctx, http.MethodPost, "/api/wallet/connect", models.ConnectRequest{Address: address}, nil)
}

func (c *Client) CreateSupportRequest(ctx context.Context, request models.SupportRequest) error {
	return c.do(ctx, http.MethodPost, "/api/support/request", request, nil)
}

func (c *Client) TriggerJackpot(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/mining/jackpot/trigger", nil, nil)
}

// get - чтение с повтором транспортных сбоев и предохранителем.
// Только для идемпотентных запросов.
func (c *Client) get(ctx context.Context, path string, out any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		backoff := retry.WithMaxRetries(2, retry.NewFibonacci(200*time.Millisecond))
		return nil, retry.Do(ctx, backoff, func(ctx context.Context) error {
			err := c.do(ctx, http.MethodGet, path, nil, out)
			var apiErr *APIError
			var rateErr *RateLimitError
			if err != nil && !errors.As(err, &apiErr) && !errors.As(err, &rateErr) {
				// транспортный сбой, ответ сервера не повторяем
				return retry.RetryableError(err)
			}
			return err
		})
	})
	if errors.Is(err, gobreaker.ErrOpenState) {
		return ErrServiceUnavailable
	}
	return err
}

func (c *Client) do(ctx context.Context, method string, path string, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.tokens.Token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		err := HandleErrorResponse(resp)
		// проверка большого количества запросов
		var rateErr *RateLimitError
		if errors.As(err, &rateErr) {
			logger.Warn("Too many requests to mining api, blocking for:", rateErr.RetryAfter)
			c.limiter.BlockFor(rateErr.RetryAfter)
		}
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
