package postgres

import (
	"context"
	"fmt"
	"time"

	"seaseed.dev/economy/internal/common"
)

// ReserveAdminAttempt: advisory-блокировка на клиента сериализует подсчёт
// и запись, так что параллельные попытки не проскакивают мимо лимита.
func (s *Store) ReserveAdminAttempt(ctx context.Context, client string, at time.Time, window time.Duration, max int) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "admin|"+client); err != nil {
		return 0, fmt.Errorf("ошибка блокировки: %w", err)
	}

	var failures int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM admin_login_attempts
		WHERE client = $1 AND success = FALSE AND attempt_time > $2
	`, client, at.Add(-window)).Scan(&failures)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта попыток: %w", err)
	}
	if failures >= max {
		return 0, common.ErrTooManyAttempts
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO admin_login_attempts (client, success, attempt_time)
		VALUES ($1, FALSE, $2)
		RETURNING id
	`, client, at).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи попытки: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка фиксации попытки: %w", err)
	}
	return id, nil
}

func (s *Store) MarkAdminAttemptSuccess(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `UPDATE admin_login_attempts SET success = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка отметки попытки: %w", err)
	}
	return nil
}

func (s *Store) PruneAdminAttempts(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM admin_login_attempts WHERE attempt_time < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки попыток: %w", err)
	}
	return tag.RowsAffected(), nil
}
