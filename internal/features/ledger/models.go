// Package ledger управляет кошельком: пять балансов, журнал транзакций,
// переводы и рейтинги. Это единственный путь, которым остальные модули
// меняют балансы.
package ledger

import "seaseed.dev/economy/internal/currency"

// Лимиты выборок
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
	DefaultRankLimit    = 10
	MaxRankLimit        = 50
)

// TransferRequest: тело POST /wallet/transfer.
type TransferRequest struct {
	To       int64         `json:"to"`
	Currency currency.Tier `json:"currency"`
	Amount   int64         `json:"amount"`
}

// AmountRequest: тело POST /wallet/deposit и /wallet/withdraw.
type AmountRequest struct {
	Currency    currency.Tier `json:"currency"`
	Amount      int64         `json:"amount"`
	Description string        `json:"description"`
}
