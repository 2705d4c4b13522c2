package sqlite

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"seaseed.dev/economy/internal/common"
)

// Время хранится в UTC, чтобы сравнение строк совпадало со сравнением моментов.
func (s *Store) ReserveAdminAttempt(ctx context.Context, client string, at time.Time, window time.Duration, max int) (int64, error) {
	var id int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var failures int64
		err := tx.Model(&adminAttemptRow{}).
			Where("client = ? AND success = ? AND attempt_time > ?", client, false, at.Add(-window).UTC()).
			Count(&failures).Error
		if err != nil {
			return fmt.Errorf("ошибка подсчёта попыток: %w", err)
		}
		if failures >= int64(max) {
			return common.ErrTooManyAttempts
		}

		row := adminAttemptRow{Client: client, AttemptTime: at.UTC()}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("ошибка записи попытки: %w", err)
		}
		id = row.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) MarkAdminAttemptSuccess(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Model(&adminAttemptRow{}).Where("id = ?", id).Update("success", true).Error
	if err != nil {
		return fmt.Errorf("ошибка отметки попытки: %w", err)
	}
	return nil
}

func (s *Store) PruneAdminAttempts(ctx context.Context, before time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("attempt_time < ?", before.UTC()).Delete(&adminAttemptRow{})
	if res.Error != nil {
		return 0, fmt.Errorf("ошибка очистки попыток: %w", res.Error)
	}
	return res.RowsAffected, nil
}
