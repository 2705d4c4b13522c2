package activity

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/config"
	"seaseed.dev/economy/internal/store"
)

// Service: участие в ежедневных активностях.
type Service struct {
	repo    Repository
	lottery Lottery

	limits       map[string]int
	defaultLimit int
	loc          *time.Location
	now          func() time.Time
}

// NewService создаёт сервис активностей. lot может быть nil: тогда
// лотерея после участия не разыгрывается.
func NewService(repo Repository, lot Lottery, cfg *config.Config) *Service {
	return &Service{
		repo:         repo,
		lottery:      lot,
		limits:       cfg.ActivityIPLimits,
		defaultLimit: cfg.ActivityDefaultIPLimit,
		loc:          common.LoadLocation(cfg.AppTimezone),
		now:          time.Now,
	}
}

// IPLimit возвращает дневной лимит участий с одного IP.
// Порядок: ACTIVITY_IP_LIMITS, затем каталог, затем лимит по умолчанию.
func (s *Service) IPLimit(a Activity) int {
	if n, ok := s.limits[a.ID]; ok && n > 0 {
		return n
	}
	if a.IPLimit > 0 {
		return a.IPLimit
	}
	return s.defaultLimit
}

// Activities: каталог с действующими лимитами.
func (s *Service) Activities() []Activity {
	out := make([]Activity, 0, len(Catalog))
	for _, a := range Catalog {
		a.IPLimit = s.IPLimit(a)
		out = append(out, a)
	}
	return out
}

// Today: ключ текущего дня.
func (s *Service) Today() string {
	return common.DayKey(s.now(), s.loc)
}

// Join засчитывает участие пользователя в активности.
//
// Проверки по порядку: активность существует, лимит IP за день не исчерпан,
// пользователь сегодня ещё не участвовал. Запись и награда проводятся одной
// транзакцией. После успеха: одна лотерейная возможность.
func (s *Service) Join(ctx context.Context, userID int64, activityID, ip, content string) (*Result, error) {
	a, ok := Find(activityID)
	if !ok {
		return nil, common.ErrUnknownActivity
	}
	if ip == "" {
		ip = "unknown"
	}
	if err := s.repo.EnsureAccount(ctx, userID); err != nil {
		return nil, err
	}

	day := s.Today()
	limit := s.IPLimit(a)
	rec := store.ActivityRecord{
		UserID:     userID,
		ActivityID: a.ID,
		Day:        day,
		IP:         ip,
		Content:    content,
		Reward:     a.Reward,
	}
	grant := store.Movement{
		UserID:      userID,
		Currency:    a.Currency,
		Amount:      a.Reward,
		Kind:        store.TxBonus,
		Description: fmt.Sprintf("Активность: %s", a.Name),
		RelatedType: "activity",
	}

	used, err := s.repo.JoinActivity(ctx, rec, limit, grant)
	if err != nil {
		log.WithFields(log.Fields{
			"user_id":  userID,
			"activity": a.ID,
			"day":      day,
		}).WithError(err).Debug("Участие отклонено")
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":  userID,
		"activity": a.ID,
		"reward":   a.Reward,
		"ip_used":  used,
		"ip_limit": limit,
	}).Info("Участие в активности засчитано")

	res := &Result{
		ActivityID:  a.ID,
		Day:         day,
		Reward:      a.Reward,
		Currency:    a.Currency,
		IPLimit:     limit,
		IPUsed:      used,
		IPRemaining: max(limit-used, 0),
	}

	if s.lottery != nil {
		out, err := s.lottery.MaybeTrigger(ctx, userID, "activity:"+a.ID)
		if err != nil {
			// Награда уже проведена, участие не откатываем.
			log.WithError(err).WithField("user_id", userID).Error("Ошибка лотереи после активности")
		} else {
			res.Lottery = out
		}
	}

	total, err := s.repo.ActivityRewardTotal(ctx, userID, day)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Не удалось посчитать награды за день")
	}
	res.TodayTotal = total
	return res, nil
}

// Records: последние участия пользователя.
func (s *Service) Records(ctx context.Context, userID int64, limit int) ([]store.ActivityRecord, error) {
	if limit <= 0 {
		limit = DefaultRecordsLimit
	}
	return s.repo.ListActivityRecords(ctx, userID, min(limit, MaxRecordsLimit))
}

// TodayPoints: сумма наград за активности сегодня.
func (s *Service) TodayPoints(ctx context.Context, userID int64) (int64, error) {
	return s.repo.ActivityRewardTotal(ctx, userID, s.Today())
}
