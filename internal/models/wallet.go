package models

import "github.com/shopspring/decimal"

// Wallet - модель кошелька пользователя. Источник истины - сервер,
// локально хранится только снимок последнего ответа.
type Wallet struct {
	Balance         decimal.Decimal `json:"balance"`
	JackpotWinnings decimal.Decimal `json:"jackpotWinnings"`
	Address         string          `json:"address,omitempty"`
}

// WithdrawRequest - модель запроса вывода средств
type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// WithdrawResponse - модель ответа о выводе средств
type WithdrawResponse struct {
	Wallet          *Wallet `json:"wallet,omitempty"`
	RequiresSupport bool    `json:"requiresSupport"`
}

// ConnectRequest - модель запроса привязки адреса внешнего кошелька
type ConnectRequest struct {
	Address string `json:"address"`
}
