package sqlite

import (
	"context"
	"fmt"
	"math"

	"gorm.io/gorm"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/currency"
	"seaseed.dev/economy/internal/store"
)

func (s *Store) Apply(ctx context.Context, movements ...store.Movement) ([]store.Transaction, error) {
	var out []store.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = applyTx(tx, movements)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// applyTx проводит движения внутри уже открытой транзакции.
// Движение идёт условным UPDATE: строка меняется, только если баланс не уйдёт
// в минус и не переполнит int64 (SQLite молча превратил бы его в REAL).
func applyTx(tx *gorm.DB, movements []store.Movement) ([]store.Transaction, error) {
	out := make([]store.Transaction, 0, len(movements))
	for _, m := range movements {
		if m.Amount == 0 {
			continue
		}
		if !m.Currency.Valid() {
			return nil, common.ErrUnknownCurrency
		}
		col := m.Currency.Column()

		ceiling := int64(math.MaxInt64)
		if m.Amount > 0 {
			ceiling -= m.Amount
		}
		res := tx.Model(&accountRow{}).
			Where("user_id = ? AND "+col+" + ? >= 0 AND "+col+" <= ?", m.UserID, m.Amount, ceiling).
			Update(col, gorm.Expr(col+" + ?", m.Amount))
		if res.Error != nil {
			return nil, fmt.Errorf("ошибка изменения баланса: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, missingOrShort(tx, m)
		}

		var after int64
		if err := tx.Model(&accountRow{}).Select(col).Where("user_id = ?", m.UserID).Row().Scan(&after); err != nil {
			return nil, fmt.Errorf("ошибка чтения баланса: %w", err)
		}

		row := transactionRow{
			UserID:       m.UserID,
			Kind:         m.Kind,
			Currency:     m.Currency.String(),
			Amount:       m.Amount,
			BalanceAfter: after,
			Description:  m.Description,
			RelatedID:    m.RelatedID,
			RelatedType:  m.RelatedType,
		}
		if err := tx.Create(&row).Error; err != nil {
			return nil, fmt.Errorf("ошибка записи транзакции: %w", err)
		}
		out = append(out, row.toDomain())
	}
	return out, nil
}

// missingOrShort объясняет, почему условный UPDATE не задел ни одной строки.
func missingOrShort(tx *gorm.DB, m store.Movement) error {
	var n int64
	if err := tx.Model(&accountRow{}).Where("user_id = ?", m.UserID).Count(&n).Error; err != nil {
		return fmt.Errorf("ошибка проверки счёта: %w", err)
	}
	if n == 0 {
		return common.ErrAccountNotFound
	}
	if m.Amount > 0 {
		return common.ErrInvalidAmount
	}
	return common.ErrInsufficientFunds
}

func (s *Store) ListTransactions(ctx context.Context, userID int64, kind string, limit int) ([]store.Transaction, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var rows []transactionRow
	if err := q.Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения транзакций: %w", err)
	}
	out := make([]store.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
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
	var out []store.BalanceEntry
	err := s.db.WithContext(ctx).Model(&accountRow{}).
		Select("user_id, "+expr+" AS value").
		Where("status = ? AND "+expr+" > 0", store.StatusActive).
		Order("value DESC, user_id ASC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка построения рейтинга: %w", err)
	}
	return out, nil
}
