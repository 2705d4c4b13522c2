package postgres

import (
	"context"
	"fmt"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/store"
)

// JoinActivity записывает участие и начисляет награду.
// Advisory-блокировка на (активность, IP, день) сериализует подсчёт лимита
// и вставку; уникальный ключ (user_id, activity_id, day): «раз в день».
func (s *Store) JoinActivity(ctx context.Context, rec store.ActivityRecord, ipLimit int, grant store.Movement) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	lockKey := rec.ActivityID + "|" + rec.IP + "|" + rec.Day
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return 0, fmt.Errorf("ошибка блокировки: %w", err)
	}

	var used int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM activity_records
		WHERE activity_id = $1 AND ip = $2 AND day = $3
	`, rec.ActivityID, rec.IP, rec.Day).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта участий: %w", err)
	}
	if used >= ipLimit {
		return 0, &common.LimitError{Limit: ipLimit}
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO activity_records (user_id, activity_id, day, ip, content, reward)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, activity_id, day) DO NOTHING
	`, rec.UserID, rec.ActivityID, rec.Day, rec.IP, rec.Content, rec.Reward)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи участия: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, common.ErrAlreadyCompletedToday
	}

	if _, err := applyTx(ctx, tx, []store.Movement{grant}); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка фиксации участия: %w", err)
	}
	return used + 1, nil
}

func (s *Store) ListActivityRecords(ctx context.Context, userID int64, limit int) ([]store.ActivityRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, activity_id, day, ip, content, reward, created_at
		FROM activity_records
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения участий: %w", err)
	}
	defer rows.Close()

	var out []store.ActivityRecord
	for rows.Next() {
		var r store.ActivityRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.ActivityID, &r.Day, &r.IP, &r.Content, &r.Reward, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования участия: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ActivityRewardTotal(ctx context.Context, userID int64, day string) (int64, error) {
	var total int64
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(reward), 0)::BIGINT FROM activity_records WHERE user_id = $1 AND day = $2
	`, userID, day).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта наград: %w", err)
	}
	return total, nil
}

func (s *Store) CountActivityRecords(ctx context.Context, day string) (int64, error) {
	var n int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM activity_records WHERE day = $1`, day).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта участий: %w", err)
	}
	return n, nil
}

func (s *Store) PruneActivityIPs(ctx context.Context, beforeDay string) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE activity_records SET ip = '' WHERE day < $1 AND ip <> ''
	`, beforeDay)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки IP: %w", err)
	}
	return tag.RowsAffected(), nil
}
