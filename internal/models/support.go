package models

import "github.com/shopspring/decimal"

// Типы и способы обращения в поддержку
const (
	SupportTypeJackpotWithdrawal = "jackpot_withdrawal"
	SupportMethodLiveChat        = "livechat"
)

// SupportRequest - модель обращения в поддержку
type SupportRequest struct {
	Type   string           `json:"type"`
	Method string           `json:"method"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}
