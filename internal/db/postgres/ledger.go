package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/currency"
	"seaseed.dev/economy/internal/store"
)

// Apply проводит все движения в одной транзакции БД.
func (s *Store) Apply(ctx context.Context, movements ...store.Movement) ([]store.Transaction, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	out, err := applyTx(ctx, tx, movements)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return out, nil
}

// applyTx меняет балансы и пишет журнал внутри открытой транзакции.
// UPDATE блокирует строку счёта до конца транзакции, поэтому операции
// над одним счётом выполняются строго по очереди.
func applyTx(ctx context.Context, tx pgx.Tx, movements []store.Movement) ([]store.Transaction, error) {
	if err := lockAccounts(ctx, tx, movements); err != nil {
		return nil, err
	}

	out := make([]store.Transaction, 0, len(movements))
	for _, m := range movements {
		if m.Amount == 0 {
			continue
		}
		if !m.Currency.Valid() {
			return nil, common.ErrUnknownCurrency
		}
		col := m.Currency.Column()

		var after int64
		err := tx.QueryRow(ctx, fmt.Sprintf(`
			UPDATE accounts
			SET %[1]s = %[1]s + $2, updated_at = NOW()
			WHERE user_id = $1 AND %[1]s + $2 >= 0
			RETURNING %[1]s
		`, col), m.UserID, m.Amount).Scan(&after)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, missingOrShort(ctx, tx, m.UserID)
		}
		if isCheckViolation(err) {
			return nil, common.ErrInsufficientFunds
		}
		if isOutOfRange(err) {
			return nil, common.ErrInvalidAmount
		}
		if err != nil {
			return nil, fmt.Errorf("ошибка изменения баланса: %w", err)
		}

		t := store.Transaction{
			UserID:       m.UserID,
			Kind:         m.Kind,
			Currency:     m.Currency,
			Amount:       m.Amount,
			BalanceAfter: after,
			Description:  m.Description,
			RelatedID:    m.RelatedID,
			RelatedType:  m.RelatedType,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO transactions (user_id, kind, currency, amount, balance_after, description, related_id, related_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at
		`, t.UserID, t.Kind, t.Currency.String(), t.Amount, t.BalanceAfter, t.Description, t.RelatedID, t.RelatedType,
		).Scan(&t.ID, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("ошибка записи транзакции: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}

// lockAccounts блокирует счета нескольких пользователей по возрастанию user_id.
// Встречные переводы A→B и B→A берут блокировки в одном порядке и не
// попадают в deadlock.
func lockAccounts(ctx context.Context, tx pgx.Tx, movements []store.Movement) error {
	ids := make([]int64, 0, len(movements))
	for _, m := range movements {
		if m.Amount != 0 {
			ids = append(ids, m.UserID)
		}
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) < 2 {
		return nil
	}

	rows, err := tx.Query(ctx, `
		SELECT user_id FROM accounts
		WHERE user_id = ANY($1)
		ORDER BY user_id
		FOR UPDATE
	`, ids)
	if err != nil {
		return fmt.Errorf("ошибка блокировки счетов: %w", err)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("ошибка блокировки счетов: %w", err)
	}
	return nil
}

// missingOrShort объясняет, почему условный UPDATE не нашёл строку.
func missingOrShort(ctx context.Context, tx pgx.Tx, userID int64) error {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ошибка проверки счёта: %w", err)
	}
	if !exists {
		return common.ErrAccountNotFound
	}
	return common.ErrInsufficientFunds
}

func (s *Store) ListTransactions(ctx context.Context, userID int64, kind string, limit int) ([]store.Transaction, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, kind, currency, amount, balance_after, description, related_id, related_type, created_at
		FROM transactions
		WHERE user_id = $1 AND ($2 = '' OR kind = $2)
		ORDER BY id DESC
		LIMIT $3
	`, userID, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения транзакций: %w", err)
	}
	defer rows.Close()

	var out []store.Transaction
	for rows.Next() {
		var t store.Transaction
		var cur string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Kind, &cur, &t.Amount, &t.BalanceAfter,
			&t.Description, &t.RelatedID, &t.RelatedType, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования транзакции: %w", err)
		}
		t.Currency, _ = currency.Parse(cur)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) TopBalances(ctx context.Context, tier currency.Tier, limit int) ([]store.BalanceEntry, error) {
	if !tier.Valid() {
		return nil, common.ErrUnknownCurrency
	}
	return s.topBy(ctx, tier.Column(), limit)
}

func (s *Store) TopWealth(ctx context.Context, limit int) ([]store.BalanceEntry, error) {
	return s.topBy(ctx, store.WealthSQL(), limit)
}

func (s *Store) topBy(ctx context.Context, expr string, limit int) ([]store.BalanceEntry, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf(`
		SELECT user_id, %[1]s AS value
		FROM accounts
		WHERE status = 'active' AND %[1]s > 0
		ORDER BY value DESC, user_id ASC
		LIMIT $1
	`, expr), limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка построения рейтинга: %w", err)
	}
	defer rows.Close()

	var out []store.BalanceEntry
	for rows.Next() {
		var e store.BalanceEntry
		if err := rows.Scan(&e.UserID, &e.Value); err != nil {
			return nil, fmt.Errorf("ошибка сканирования рейтинга: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
