package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/store"
)

func (s *Store) CreatePost(ctx context.Context, post store.Post) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE accounts SET posts_count = posts_count + 1, updated_at = NOW() WHERE user_id = $1
	`, post.AuthorID)
	if err != nil {
		return fmt.Errorf("ошибка обновления счётчика постов: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrAccountNotFound
	}

	tag, err = tx.Exec(ctx, `
		INSERT INTO post_stats (post_id, author_id, kind, day)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (post_id) DO NOTHING
	`, post.PostID, post.AuthorID, post.Kind, post.Day)
	if err != nil {
		return fmt.Errorf("ошибка регистрации поста: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrPostExists
	}

	return tx.Commit(ctx)
}

const postColumns = `post_id, author_id, kind, day, likes, comments, collects, views, created_at`

func scanPost(row pgx.Row) (*store.Post, error) {
	var p store.Post
	err := row.Scan(&p.PostID, &p.AuthorID, &p.Kind, &p.Day, &p.Likes, &p.Comments, &p.Collects, &p.Views, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения поста: %w", err)
	}
	return &p, nil
}

func (s *Store) GetPost(ctx context.Context, postID int64) (*store.Post, error) {
	return scanPost(s.db.QueryRow(ctx, `SELECT `+postColumns+` FROM post_stats WHERE post_id = $1`, postID))
}

func (s *Store) CountPostsOn(ctx context.Context, authorID int64, day string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM post_stats WHERE author_id = $1 AND day = $2
	`, authorID, day).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта постов: %w", err)
	}
	return n, nil
}

// BumpPost сдвигает счётчик поста и, для лайков и комментариев, счётчик автора.
func (s *Store) BumpPost(ctx context.Context, postID int64, metric store.PostMetric, delta int64) (*store.Post, error) {
	if !store.ValidMetric(metric) {
		return nil, fmt.Errorf("неизвестный счётчик %q", metric)
	}
	col := string(metric)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	before, err := scanPost(tx.QueryRow(ctx, `SELECT `+postColumns+` FROM post_stats WHERE post_id = $1 FOR UPDATE`, postID))
	if err != nil {
		return nil, err
	}

	after, err := scanPost(tx.QueryRow(ctx, fmt.Sprintf(`
		UPDATE post_stats SET %[1]s = GREATEST(%[1]s + $2, 0)
		WHERE post_id = $1
		RETURNING `+postColumns, col), postID, delta))
	if err != nil {
		return nil, err
	}

	moved := after.Metric(metric) - before.Metric(metric)
	if authorCol := store.AuthorCounter(metric); authorCol != "" && moved != 0 {
		_, err = tx.Exec(ctx, fmt.Sprintf(`
			UPDATE accounts SET %[1]s = GREATEST(%[1]s + $2, 0), updated_at = NOW() WHERE user_id = $1
		`, authorCol), after.AuthorID, moved)
		if err != nil {
			return nil, fmt.Errorf("ошибка обновления счётчика автора: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации поста: %w", err)
	}
	return after, nil
}
