package postgres

import (
	"context"
	"fmt"

	"seaseed.dev/economy/internal/store"
)

// ClaimMilestone: вставка в milestone_claims служит воротами:
// конкурирующая транзакция ждёт на уникальном ключе и получает конфликт.
func (s *Store) ClaimMilestone(ctx context.Context, claim store.MilestoneClaim, grant store.Movement) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO milestone_claims (subject_type, subject_id, threshold, user_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
	`, claim.SubjectType, claim.SubjectID, claim.Threshold, claim.UserID)
	if err != nil {
		return false, fmt.Errorf("ошибка записи вехи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := applyTx(ctx, tx, []store.Movement{grant}); err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("ошибка фиксации вехи: %w", err)
	}
	return true, nil
}

func (s *Store) ListMilestoneClaims(ctx context.Context, subjectType string, subjectID int64) ([]store.MilestoneClaim, error) {
	rows, err := s.db.Query(ctx, `
		SELECT subject_type, subject_id, threshold, user_id, created_at
		FROM milestone_claims
		WHERE subject_type = $1 AND subject_id = $2
		ORDER BY created_at, threshold
	`, subjectType, subjectID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения вех: %w", err)
	}
	defer rows.Close()

	var out []store.MilestoneClaim
	for rows.Next() {
		var c store.MilestoneClaim
		if err := rows.Scan(&c.SubjectType, &c.SubjectID, &c.Threshold, &c.UserID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования вехи: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
