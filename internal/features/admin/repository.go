package admin

import (
	"context"
	"time"

	"seaseed.dev/economy/internal/currency"
	"seaseed.dev/economy/internal/features/lottery"
	"seaseed.dev/economy/internal/store"
)

// Ledger: операции кошелька, доступные администратору.
type Ledger interface {
	Grant(ctx context.Context, userID int64, tier currency.Tier, amount int64, description string) (*store.Transaction, error)
	SetStatus(ctx context.Context, userID int64, status string) error
}

// Lottery: управление лотереей.
type Lottery interface {
	Settings() lottery.Settings
	Configure(st lottery.Settings) error
	Trigger(ctx context.Context, userID int64, reason string) (lottery.Outcome, error)
}

// Attempts: журнал попыток входа.
type Attempts interface {
	ReserveAdminAttempt(ctx context.Context, client string, at time.Time, window time.Duration, max int) (int64, error)
	MarkAdminAttemptSuccess(ctx context.Context, id int64) error
}
