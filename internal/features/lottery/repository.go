package lottery

import (
	"context"

	"seaseed.dev/economy/internal/store"
)

// Ledger: зачисление выигрыша.
type Ledger interface {
	Credit(ctx context.Context, m store.Movement) (*store.Transaction, error)
}
