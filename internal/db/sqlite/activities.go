package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/store"
)

func (s *Store) JoinActivity(ctx context.Context, rec store.ActivityRecord, ipLimit int, grant store.Movement) (int, error) {
	var used int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&activityRow{}).
			Where("activity_id = ? AND ip = ? AND day = ?", rec.ActivityID, rec.IP, rec.Day).
			Count(&used).Error
		if err != nil {
			return fmt.Errorf("ошибка подсчёта участий: %w", err)
		}
		if used >= int64(ipLimit) {
			return &common.LimitError{Limit: ipLimit}
		}

		row := activityRow{
			UserID:     rec.UserID,
			ActivityID: rec.ActivityID,
			Day:        rec.Day,
			IP:         rec.IP,
			Content:    rec.Content,
			Reward:     rec.Reward,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return fmt.Errorf("ошибка записи участия: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return common.ErrAlreadyCompletedToday
		}

		if _, err := applyTx(tx, []store.Movement{grant}); err != nil {
			return err
		}
		used++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(used), nil
}

func (s *Store) ListActivityRecords(ctx context.Context, userID int64, limit int) ([]store.ActivityRecord, error) {
	var rows []activityRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка получения участий: %w", err)
	}
	out := make([]store.ActivityRecord, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (s *Store) ActivityRewardTotal(ctx context.Context, userID int64, day string) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&activityRow{}).
		Select("COALESCE(SUM(reward), 0)").
		Where("user_id = ? AND day = ?", userID, day).
		Row().Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта наград: %w", err)
	}
	return total, nil
}

func (s *Store) CountActivityRecords(ctx context.Context, day string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&activityRow{}).Where("day = ?", day).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта участий: %w", err)
	}
	return n, nil
}

func (s *Store) PruneActivityIPs(ctx context.Context, beforeDay string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&activityRow{}).
		Where("day < ? AND ip <> ''", beforeDay).
		Update("ip", "")
	if res.Error != nil {
		return 0, fmt.Errorf("ошибка очистки IP: %w", res.Error)
	}
	return res.RowsAffected, nil
}
