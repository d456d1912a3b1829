package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/logger"
	"github.com/incomelogins-commits/cryptomine-frontend/internal/models"
	"github.com/shopspring/decimal"
)

type staticToken string

func (s staticToken) Token(_ context.Context) string { return string(s) }

func initLogger(t *testing.T) {
	t.Helper()
	if err := logger.Initialize("error"); err != nil {
		t.Fatalf("Expected no error, got: '%v'", err)
	}
}

func TestBearerCredential(t *testing.T) {
	initLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testCases := []struct {
		name       string
		token      staticToken
		expectAuth string
	}{
		{name: "Token attached to request #1", token: "token-1", expectAuth: "Bearer token-1"},
		{name: "Anonymous request has no header #2", token: "", expectAuth: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != tc.expectAuth {
					t.Errorf("Expected authorization '%s', got: '%s'", tc.expectAuth, got)
				}
				if r.Header.Get("X-Request-ID") == "" {
					t.Errorf("Expected X-Request-ID header")
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(models.StatsResponse{})
			}))
			defer server.Close()

			client := NewClient(server.URL, &http.Client{}, tc.token)
			if _, err := client.GetStats(ctx); err != nil {
				t.Errorf("Expected no error, got: '%v'", err)
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	initLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	expected := models.StatsResponse{
		Stats: models.Stats{
			HashRate:      420,
			Uptime:        12.5,
			CoinsMined:    0.004215,
			TotalEarnings: decimal.NewFromFloat(310.25),
		},
		Wallet: models.Wallet{
			Balance:         decimal.NewFromFloat(120.5),
			JackpotWinnings: decimal.NewFromInt(0),
		},
		JackpotTriggered: true,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/mining/stats" {
			t.Errorf("Expected path '/api/mining/stats', got: '%s'", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expected)
	}))
	defer server.Close()

	client := NewClient(server.URL, &http.Client{}, staticToken("token-1"))
	response, err := client.GetStats(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got: '%v'", err)
	}
	if diff := cmp.Diff(expected, *response); diff != "" {
		t.Errorf("Unexpected stats response (-want +got):\n%s", diff)
	}
}

func TestWithdrawRequestBody(t *testing.T) {
	initLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/wallet/withdraw" {
			t.Errorf("Expected path '/api/wallet/withdraw', got: '%s'", r.URL.Path)
		}
		var request models.WithdrawRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("Expected no error, got: '%v'", err)
		}
		if !request.Amount.Equal(decimal.NewFromInt(500)) {
			t.Errorf("Expected amount 500, got: '%s'", request.Amount)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.WithdrawResponse{RequiresSupport: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, &http.Client{}, staticToken("token-1"))
	response, err := client.Withdraw(ctx, decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("Expected no error, got: '%v'", err)
	}
	if !response.RequiresSupport {
		t.Errorf("Expected requiresSupport to be true")
	}
}

func TestErrorMapping(t *testing.T) {
	initLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testCases := []struct {
		name          string
		status        int
		body          string
		fallback      string
		expectMessage string
	}{
		{
			name:          "Server message is preferred #1",
			status:        http.StatusBadRequest,
			body:          `{"message":"Invalid email or password"}`,
			fallback:      "Something went wrong",
			expectMessage: "Invalid email or password",
		},
		{
			name:          "Empty body falls back #2",
			status:        http.StatusInternalServerError,
			body:          "",
			fallback:      "Something went wrong",
			expectMessage: "Something went wrong",
		},
		{
			name:          "Non-JSON body falls back #3",
			status:        http.StatusBadGateway,
			body:          "<html>bad gateway</html>",
			fallback:      "Withdrawal failed",
			expectMessage: "Withdrawal failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, &http.Client{}, staticToken(""))
			_, err := client.Login(ctx, models.LoginRequest{Email: "a@b.c", Password: "pass"})
			if err == nil {
				t.Fatalf("Expected error, got none")
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Expected APIError, got: '%T'", err)
			}
			if apiErr.StatusCode != tc.status {
				t.Errorf("Expected status %d, got: %d", tc.status, apiErr.StatusCode)
			}
			if got := ServerMessage(err, tc.fallback); got != tc.expectMessage {
				t.Errorf("Expected message '%s', got: '%s'", tc.expectMessage, got)
			}
		})
	}
}

func TestGetRetriesTransportFailures(t *testing.T) {
	initLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// первый запрос обрываем на уровне соединения
		if calls.Add(1) == 1 {
			conn, _, err := w.(http.Hijacker).Hijack()
			if err != nil {
				t.Errorf("Expected no error, got: '%v'", err)
				return
			}
			conn.Close()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.StatsResponse{JackpotTriggered: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, &http.Client{}, staticToken("token-1"))
	response, err := client.GetStats(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got: '%v'", err)
	}
	if !response.JackpotTriggered {
		t.Errorf("Expected jackpotTriggered to be true")
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("Expected 2 requests, got: %d", got)
	}
}

func TestGetDoesNotRetryServerErrors(t *testing.T) {
	initLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"Mining rig overheated"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, &http.Client{}, staticToken("token-1"))
	_, err := client.GetStats(ctx)
	if err == nil {
		t.Fatalf("Expected error, got none")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got: '%T'", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got: %d", http.StatusInternalServerError, apiErr.StatusCode)
	}
	// ответ сервера не повторяем
	if got := calls.Load(); got != 1 {
		t.Errorf("Expected 1 request, got: %d", got)
	}
}

func TestBreakerOpensOnConsecutiveFailures(t *testing.T) {
	initLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// сервер недоступен, остаётся только адрес
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(baseURL, &http.Client{}, staticToken("token-1"))
	for i := 0; i < 5; i++ {
		if _, err := client.GetStats(ctx); err == nil {
			t.Fatalf("Expected transport error, got none")
		}
	}

	_, err := client.GetStats(ctx)
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("Expected ErrServiceUnavailable, got: '%v'", err)
	}
}

func TestRateLimitBlocksClient(t *testing.T) {
	initLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, &http.Client{}, staticToken("token-1"))
	_, err := client.GetStats(ctx)
	if err == nil {
		t.Fatalf("Expected error, got none")
	}

	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("Expected RateLimitError, got: '%T'", err)
	}
	if rateErr.RetryAfter != 2*time.Second {
		t.Errorf("Expected retry after 2s, got: '%v'", rateErr.RetryAfter)
	}
	// отказ сервера не повторяем
	if got := calls.Load(); got != 1 {
		t.Errorf("Expected 1 request, got: %d", got)
	}

	// лимитер держит следующий запрос до конца срока
	shortCtx, shortCancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer shortCancel()
	if _, err := client.GetTransactions(shortCtx); err == nil {
		t.Errorf("Expected limiter to hold the request")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("Expected 1 request, got: %d", got)
	}
}

func TestParseRetryAfter(t *testing.T) {
	testCases := []struct {
		name     string
		header   string
		expected time.Duration
	}{
		{name: "Seconds value #1", header: "30", expected: 30 * time.Second},
		{name: "Missing header defaults to a minute #2", header: "", expected: time.Minute},
		{name: "Garbage defaults to a minute #3", header: "soon", expected: time.Minute},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			headers := http.Header{}
			if tc.header != "" {
				headers.Set("Retry-After", tc.header)
			}
			if got := ParseRetryAfter(headers); got != tc.expected {
				t.Errorf("Expected '%v', got: '%v'", tc.expected, got)
			}
		})
	}
}

func TestServerMessageTransportFailure(t *testing.T) {
	// транспортная ошибка не содержит текста сервера
	err := errors.New("connection refused")
	if got := ServerMessage(err, "Mining session failed"); got != "Mining session failed" {
		t.Errorf("Expected fallback message, got: '%s'", got)
	}
}
