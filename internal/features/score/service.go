package score

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/store"
)

// Service начисляет очки.
type Service struct {
	repo Repository
}

// NewService создаёт сервис очков.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Award начисляет очки за действие и пишет запись в журнал.
//
// Неизвестное действие или пользователь без счёта не считаются ошибкой:
// возвращается ноль и ничего не пишется. Вызывающий код на результат
// не ветвится.
func (s *Service) Award(ctx context.Context, userID int64, action Action, relatedID int64, description string) decimal.Decimal {
	if userID <= 0 {
		return decimal.Zero
	}
	points, ok := PointsFor(action)
	if !ok {
		log.WithFields(log.Fields{"user_id": userID, "action": action}).Debug(common.ErrUnknownActionKind.Error())
		return decimal.Zero
	}

	err := s.repo.AwardScore(ctx, store.ScoreRecord{
		UserID:      userID,
		Action:      string(action),
		Points:      points,
		RelatedID:   relatedID,
		Description: description,
	})
	if err != nil {
		if !errors.Is(err, common.ErrAccountNotFound) {
			log.WithError(err).WithField("user_id", userID).Error("Не удалось начислить очки")
		}
		return decimal.Zero
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"action":  action,
		"points":  points.String(),
	}).Debug("Начислены очки")
	return points
}

// Rank возвращает топ активных пользователей по очкам.
// При равных очках выше тот, у кого меньше ID.
func (s *Service) Rank(ctx context.Context, limit int) ([]store.ScoreEntry, error) {
	if limit <= 0 {
		limit = DefaultRankLimit
	}
	if limit > MaxRankLimit {
		limit = MaxRankLimit
	}
	return s.repo.TopScores(ctx, limit)
}

// Breakdown: сумма и количество очков по каждому типу действия.
func (s *Service) Breakdown(ctx context.Context, userID int64) ([]store.ScoreBucket, error) {
	return s.repo.ScoreBreakdown(ctx, userID)
}

// Records: последние начисления пользователя.
func (s *Service) Records(ctx context.Context, userID int64, limit int) ([]store.ScoreRecord, error) {
	return s.repo.ListScoreRecords(ctx, userID, limit)
}
