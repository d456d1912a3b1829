package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stats - модель статистики майнинга. Значения рассчитываются сервером
// и используются только для отображения.
type Stats struct {
	HashRate       int             `json:"hashRate"`
	Uptime         float64         `json:"uptime"`
	CoinsMined     float64         `json:"coinsMined"`
	TotalEarnings  decimal.Decimal `json:"totalEarnings"`
	SessionHistory []MiningSession `json:"sessionHistory"`
}

// MiningSession - элемент истории завершённых сессий
type MiningSession struct {
	Duration  int             `json:"duration"`
	HashRate  int             `json:"hashRate"`
	Earnings  decimal.Decimal `json:"earnings"`
	CreatedAt time.Time       `json:"createdAt"`
}

// StatsResponse - модель ответа /api/mining/stats
type StatsResponse struct {
	Stats            Stats  `json:"stats"`
	Wallet           Wallet `json:"wallet"`
	JackpotTriggered bool   `json:"jackpotTriggered"`
}

// SessionRequest - параметры симулируемой сессии, выбирает клиент
type SessionRequest struct {
	Duration int `json:"duration"`
	HashRate int `json:"hashRate"`
}

// SessionResponse - модель ответа о завершении сессии
type SessionResponse struct {
	Wallet          Wallet          `json:"wallet"`
	SessionEarnings decimal.Decimal `json:"sessionEarnings"`
}
