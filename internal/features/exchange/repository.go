package exchange

import (
	"context"

	"seaseed.dev/economy/internal/store"
)

// Ledger: то, что обмену нужно от кошелька.
type Ledger interface {
	Account(ctx context.Context, userID int64) (*store.Account, error)
	Apply(ctx context.Context, movements ...store.Movement) ([]store.Transaction, error)
}
