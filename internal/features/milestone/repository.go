package milestone

import (
	"context"

	"seaseed.dev/economy/internal/store"
)

// Repository: отметки вех и счётчики, по которым они считаются.
type Repository interface {
	store.Milestones
	GetPost(ctx context.Context, postID int64) (*store.Post, error)
	GetAccount(ctx context.Context, userID int64) (*store.Account, error)
}
