package events

import (
	"context"

	"github.com/shopspring/decimal"

	"seaseed.dev/economy/internal/features/lottery"
	"seaseed.dev/economy/internal/features/milestone"
	"seaseed.dev/economy/internal/features/score"
	"seaseed.dev/economy/internal/store"
)

// Repository: счётчики постов.
type Repository interface {
	store.Posts
}

// Ledger: начисление ракушек.
type Ledger interface {
	EnsureAccount(ctx context.Context, userID int64) error
	Credit(ctx context.Context, m store.Movement) (*store.Transaction, error)
}

// Scorer: начисление очков.
type Scorer interface {
	Award(ctx context.Context, userID int64, action score.Action, relatedID int64, description string) decimal.Decimal
}

// Milestones: проверка порогов.
type Milestones interface {
	CheckPost(ctx context.Context, postID, authorID int64) ([]milestone.Bonus, error)
	CheckUser(ctx context.Context, userID int64) ([]milestone.Bonus, error)
}

// Lottery: лотерейная возможность.
type Lottery interface {
	MaybeTrigger(ctx context.Context, userID int64, reason string) (lottery.Outcome, error)
}
