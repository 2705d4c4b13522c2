package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/store"
)

func (s *Store) EnsureAccount(ctx context.Context, userID int64) error {
	row := accountRow{UserID: userID, Status: store.StatusActive}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("ошибка создания счёта: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, userID int64) (*store.Account, error) {
	var row accountRow
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if isNotFound(err) {
		return nil, common.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения счёта: %w", err)
	}
	return row.toDomain(), nil
}

func (s *Store) SetAccountStatus(ctx context.Context, userID int64, status string) error {
	res := s.db.WithContext(ctx).Model(&accountRow{}).
		Where("user_id = ?", userID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("ошибка смены статуса: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrAccountNotFound
	}
	return nil
}
