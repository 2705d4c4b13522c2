package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/store"
)

func (s *Store) CreatePost(ctx context.Context, post store.Post) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := postRow{
			PostID:   post.PostID,
			AuthorID: post.AuthorID,
			Kind:     post.Kind,
			Day:      post.Day,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return fmt.Errorf("ошибка регистрации поста: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return common.ErrPostExists
		}

		res = tx.Model(&accountRow{}).
			Where("user_id = ?", post.AuthorID).
			Update("posts_count", gorm.Expr("posts_count + 1"))
		if res.Error != nil {
			return fmt.Errorf("ошибка обновления счётчика постов: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return common.ErrAccountNotFound
		}
		return nil
	})
}

func (s *Store) GetPost(ctx context.Context, postID int64) (*store.Post, error) {
	var row postRow
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).First(&row).Error
	if isNotFound(err) {
		return nil, common.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения поста: %w", err)
	}
	return row.toDomain(), nil
}

func (s *Store) CountPostsOn(ctx context.Context, authorID int64, day string) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&postRow{}).
		Where("author_id = ? AND day = ?", authorID, day).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта постов: %w", err)
	}
	return int(n), nil
}

func (s *Store) BumpPost(ctx context.Context, postID int64, metric store.PostMetric, delta int64) (*store.Post, error) {
	if !store.ValidMetric(metric) {
		return nil, fmt.Errorf("неизвестный счётчик %q", metric)
	}
	col := string(metric)

	var out *store.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row postRow
		err := tx.Where("post_id = ?", postID).First(&row).Error
		if isNotFound(err) {
			return common.ErrPostNotFound
		}
		if err != nil {
			return fmt.Errorf("ошибка получения поста: %w", err)
		}

		cur := row.toDomain().Metric(metric)
		next := max(cur+delta, 0)
		if next != cur {
			err = tx.Model(&postRow{}).Where("post_id = ?", postID).Update(col, next).Error
			if err != nil {
				return fmt.Errorf("ошибка обновления поста: %w", err)
			}
			if authorCol := store.AuthorCounter(metric); authorCol != "" {
				err = tx.Model(&accountRow{}).
					Where("user_id = ?", row.AuthorID).
					Update(authorCol, gorm.Expr("MAX("+authorCol+" + ?, 0)", next-cur)).Error
				if err != nil {
					return fmt.Errorf("ошибка обновления счётчика автора: %w", err)
				}
			}
		}

		if err := tx.Where("post_id = ?", postID).First(&row).Error; err != nil {
			return fmt.Errorf("ошибка чтения поста: %w", err)
		}
		out = row.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
