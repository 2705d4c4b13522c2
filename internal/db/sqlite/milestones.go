package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seaseed.dev/economy/internal/store"
)

func (s *Store) ClaimMilestone(ctx context.Context, claim store.MilestoneClaim, grant store.Movement) (bool, error) {
	claimed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := milestoneRow{
			SubjectType: claim.SubjectType,
			SubjectID:   claim.SubjectID,
			Threshold:   claim.Threshold,
			UserID:      claim.UserID,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return fmt.Errorf("ошибка записи вехи: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if _, err := applyTx(tx, []store.Movement{grant}); err != nil {
			return err
		}
		claimed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return claimed, nil
}

func (s *Store) ListMilestoneClaims(ctx context.Context, subjectType string, subjectID int64) ([]store.MilestoneClaim, error) {
	var rows []milestoneRow
	err := s.db.WithContext(ctx).
		Where("subject_type = ? AND subject_id = ?", subjectType, subjectID).
		Order("created_at, threshold").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка получения вех: %w", err)
	}
	out := make([]store.MilestoneClaim, 0, len(rows))
	for _, r := range rows {
		out = append(out, store.MilestoneClaim{
			SubjectType: r.SubjectType,
			SubjectID:   r.SubjectID,
			Threshold:   r.Threshold,
			UserID:      r.UserID,
			CreatedAt:   r.CreatedAt,
		})
	}
	return out, nil
}
