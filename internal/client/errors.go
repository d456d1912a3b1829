package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrServiceUnavailable = errors.New("mining api unavailable")
)

// APIError - ошибка, которой сервер отклонил запрос. Message пустой,
// если сервер не прислал поясняющего текста.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// RateLimitError - сервер отклонил запрос из-за превышения частоты.
// RetryAfter берётся из заголовка ответа.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return "rate limit exceeded"
}

func NewRateLimitError(headers http.Header) *RateLimitError {
	return &RateLimitError{
		RetryAfter: ParseRetryAfter(headers),
	}
}

// ServerMessage - текст сервера из ошибки или запасной текст,
// если запрос отклонён без пояснения либо не дошёл до сервера.
func ServerMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// HandleErrorResponse - преобразует ответ с ошибочным статусом в APIError
func HandleErrorResponse(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return NewRateLimitError(resp.Header)
	}

	var body struct {
		Message string `json:"message"`
	}
	// тело может быть пустым или не JSON, тогда остаёмся без текста
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    body.Message,
	}
}
