package postgres

import (
	"context"
	"fmt"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/store"
)

// AwardScore увеличивает очки и пишет запись в score_records в одной транзакции.
func (s *Store) AwardScore(ctx context.Context, rec store.ScoreRecord) error {
	centi := store.ToCenti(rec.Points)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE accounts SET score_centi = score_centi + $2, updated_at = NOW() WHERE user_id = $1
	`, rec.UserID, centi)
	if err != nil {
		return fmt.Errorf("ошибка начисления очков: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrAccountNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO score_records (user_id, action, points_centi, related_id, description)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.UserID, rec.Action, centi, rec.RelatedID, rec.Description)
	if err != nil {
		return fmt.Errorf("ошибка записи очков: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *Store) TopScores(ctx context.Context, limit int) ([]store.ScoreEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id, score_centi
		FROM accounts
		WHERE status = 'active'
		ORDER BY score_centi DESC, user_id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения рейтинга: %w", err)
	}
	defer rows.Close()

	var out []store.ScoreEntry
	for rows.Next() {
		var e store.ScoreEntry
		var centi int64
		if err := rows.Scan(&e.UserID, &centi); err != nil {
			return nil, fmt.Errorf("ошибка сканирования рейтинга: %w", err)
		}
		e.Score = store.FromCenti(centi)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) ScoreBreakdown(ctx context.Context, userID int64) ([]store.ScoreBucket, error) {
	rows, err := s.db.Query(ctx, `
		SELECT action, SUM(points_centi)::BIGINT, COUNT(*)
		FROM score_records
		WHERE user_id = $1
		GROUP BY action
		ORDER BY action
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения разбивки очков: %w", err)
	}
	defer rows.Close()

	var out []store.ScoreBucket
	for rows.Next() {
		var b store.ScoreBucket
		var centi int64
		if err := rows.Scan(&b.Action, &centi, &b.Count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования разбивки: %w", err)
		}
		b.Points = store.FromCenti(centi)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) ListScoreRecords(ctx context.Context, userID int64, limit int) ([]store.ScoreRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, action, points_centi, related_id, description, created_at
		FROM score_records
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории очков: %w", err)
	}
	defer rows.Close()

	var out []store.ScoreRecord
	for rows.Next() {
		var r store.ScoreRecord
		var centi int64
		if err := rows.Scan(&r.ID, &r.UserID, &r.Action, &centi, &r.RelatedID, &r.Description, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования очков: %w", err)
		}
		r.Points = store.FromCenti(centi)
		out = append(out, r)
	}
	return out, rows.Err()
}
