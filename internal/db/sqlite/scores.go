package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/store"
)

func (s *Store) AwardScore(ctx context.Context, rec store.ScoreRecord) error {
	centi := store.ToCenti(rec.Points)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&accountRow{}).
			Where("user_id = ?", rec.UserID).
			Update("score_centi", gorm.Expr("score_centi + ?", centi))
		if res.Error != nil {
			return fmt.Errorf("ошибка начисления очков: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return common.ErrAccountNotFound
		}

		row := scoreRecordRow{
			UserID:      rec.UserID,
			Action:      rec.Action,
			PointsCenti: centi,
			RelatedID:   rec.RelatedID,
			Description: rec.Description,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("ошибка записи очков: %w", err)
		}
		return nil
	})
}

func (s *Store) TopScores(ctx context.Context, limit int) ([]store.ScoreEntry, error) {
	var rows []accountRow
	err := s.db.WithContext(ctx).
		Select("user_id", "score_centi").
		Where("status = ?", store.StatusActive).
		Order("score_centi DESC, user_id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка получения рейтинга: %w", err)
	}
	out := make([]store.ScoreEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, store.ScoreEntry{UserID: r.UserID, Score: store.FromCenti(r.ScoreCenti)})
	}
	return out, nil
}

func (s *Store) ScoreBreakdown(ctx context.Context, userID int64) ([]store.ScoreBucket, error) {
	var rows []struct {
		Action string
		Centi  int64
		Cnt    int64
	}
	err := s.db.WithContext(ctx).Model(&scoreRecordRow{}).
		Select("action, SUM(points_centi) AS centi, COUNT(*) AS cnt").
		Where("user_id = ?", userID).
		Group("action").
		Order("action").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка получения разбивки очков: %w", err)
	}
	out := make([]store.ScoreBucket, 0, len(rows))
	for _, r := range rows {
		out = append(out, store.ScoreBucket{Action: r.Action, Points: store.FromCenti(r.Centi), Count: r.Cnt})
	}
	return out, nil
}

func (s *Store) ListScoreRecords(ctx context.Context, userID int64, limit int) ([]store.ScoreRecord, error) {
	var rows []scoreRecordRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории очков: %w", err)
	}
	out := make([]store.ScoreRecord, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}
