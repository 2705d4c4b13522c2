package activity

import (
	"context"

	"seaseed.dev/economy/internal/features/lottery"
	"seaseed.dev/economy/internal/store"
)

// Repository: журнал участий и создание счёта.
type Repository interface {
	store.Activities
	EnsureAccount(ctx context.Context, userID int64) error
}

// Lottery: лотерейная возможность после успешного участия.
type Lottery interface {
	MaybeTrigger(ctx context.Context, userID int64, reason string) (lottery.Outcome, error)
}
