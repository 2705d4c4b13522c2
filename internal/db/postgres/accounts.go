package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/store"
)

// EnsureAccount создаёт пустой счёт. Повторный вызов ничего не меняет.
func (s *Store) EnsureAccount(ctx context.Context, userID int64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO accounts (user_id, status)
		VALUES ($1, 'active')
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return fmt.Errorf("ошибка создания счёта: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, userID int64) (*store.Account, error) {
	var a store.Account
	var centi int64
	err := s.db.QueryRow(ctx, `
		SELECT user_id, shells, pearls, gems, crystals, dragonballs, score_centi,
		       posts_count, likes_received, comments_received, status, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
	`, userID).Scan(
		&a.UserID, &a.Shells, &a.Pearls, &a.Gems, &a.Crystals, &a.Dragonballs, &centi,
		&a.PostsCount, &a.LikesReceived, &a.CommentsReceived, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения счёта: %w", err)
	}
	a.Score = store.FromCenti(centi)
	return &a, nil
}

func (s *Store) SetAccountStatus(ctx context.Context, userID int64, status string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE accounts SET status = $2, updated_at = NOW() WHERE user_id = $1
	`, userID, status)
	if err != nil {
		return fmt.Errorf("ошибка смены статуса: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrAccountNotFound
	}
	return nil
}
