package milestone

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"seaseed.dev/economy/internal/store"
)

// Service проверяет пороги и выдаёт бонусы.
type Service struct {
	repo Repository
}

// NewService создаёт трекер вех.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CheckPost перечитывает счётчики поста и выдаёт бонусы за все достигнутые,
// но ещё не оплаченные пороги. Если счётчик перепрыгнул несколько порогов,
// все они оплачиваются в этом вызове. authorID <= 0: автор берётся из поста.
func (s *Service) CheckPost(ctx context.Context, postID, authorID int64) ([]Bonus, error) {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if authorID <= 0 {
		authorID = post.AuthorID
	}

	values := map[string]int64{
		MetricLikes:    post.Likes,
		MetricComments: post.Comments,
	}
	return s.check(ctx, PostRules, postID, authorID, values)
}

// CheckUser выдаёт бонусы за число опубликованных постов.
func (s *Service) CheckUser(ctx context.Context, userID int64) ([]Bonus, error) {
	acc, err := s.repo.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	values := map[string]int64{MetricPosts: acc.PostsCount}
	return s.check(ctx, UserRules, userID, userID, values)
}

func (s *Service) check(ctx context.Context, rules []Rule, subjectID, userID int64, values map[string]int64) ([]Bonus, error) {
	var granted []Bonus
	for _, r := range rules {
		if values[r.Metric] < r.Threshold {
			continue
		}

		claim := store.MilestoneClaim{
			SubjectType: r.Subject,
			SubjectID:   subjectID,
			Threshold:   r.Key(),
			UserID:      userID,
		}
		grant := store.Movement{
			UserID:      userID,
			Currency:    r.Currency,
			Amount:      r.Amount,
			Kind:        store.TxBonus,
			Description: describe(r, subjectID),
			RelatedID:   subjectID,
			RelatedType: "milestone_" + r.Subject,
		}

		ok, err := s.repo.ClaimMilestone(ctx, claim, grant)
		if err != nil {
			return granted, fmt.Errorf("веха %s: %w", r.Key(), err)
		}
		if !ok {
			continue
		}

		log.WithFields(log.Fields{
			"subject":    r.Subject,
			"subject_id": subjectID,
			"user_id":    userID,
			"milestone":  r.Key(),
			"currency":   r.Currency,
			"amount":     r.Amount,
		}).Info("Выдан бонус за веху")

		granted = append(granted, Bonus{
			Key:       r.Key(),
			SubjectID: subjectID,
			UserID:    userID,
			Currency:  r.Currency,
			Amount:    r.Amount,
		})
	}
	return granted, nil
}

func describe(r Rule, subjectID int64) string {
	switch r.Metric {
	case MetricLikes:
		return fmt.Sprintf("Пост #%d набрал %d лайков", subjectID, r.Threshold)
	case MetricComments:
		return fmt.Sprintf("Пост #%d набрал %d комментариев", subjectID, r.Threshold)
	default:
		return fmt.Sprintf("Опубликовано %d постов", r.Threshold)
	}
}

// Claims возвращает уже оплаченные пороги субъекта.
func (s *Service) Claims(ctx context.Context, subjectType string, subjectID int64) ([]store.MilestoneClaim, error) {
	return s.repo.ListMilestoneClaims(ctx, subjectType, subjectID)
}
