// Package exchange меняет валюту на следующий уровень по курсу 100:1.
package exchange

import "seaseed.dev/economy/internal/currency"

// Request: тело POST /exchange.
type Request struct {
	From   currency.Tier `json:"from"`
	To     currency.Tier `json:"to"`
	Amount int64         `json:"amount"`
}

// Result: итог обмена.
// Cost списывается целиком, Gained = floor(Cost / 100); остаток не возвращается.
type Result struct {
	From   currency.Tier `json:"from"`
	To     currency.Tier `json:"to"`
	Cost   int64         `json:"cost"`
	Gained int64         `json:"gained"`

	// Балансы после обмена
	FromBalance int64 `json:"from_balance"`
	ToBalance   int64 `json:"to_balance"`
}
