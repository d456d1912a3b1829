package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Типы транзакций
const (
	TransactionTypeMining     = "mining"
	TransactionTypeJackpot    = "jackpot"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeBonus      = "bonus"
)

// Transaction - модель транзакции. Создаётся сервером, неизменяема,
// порядок выдачи определяет сервер.
type Transaction struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}
