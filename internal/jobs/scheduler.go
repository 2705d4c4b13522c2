// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: итоги прошедшего дня и ночная
// очистка персональных данных.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/config"
)

// Activities: часть хранилища, которую обслуживают задачи.
type Activities interface {
	CountActivityRecords(ctx context.Context, day string) (int64, error)
	PruneActivityIPs(ctx context.Context, beforeDay string) (int64, error)
	PruneAdminAttempts(ctx context.Context, before time.Time) (int64, error)
}

// Попытки входа в админку старше суток не влияют на блокировку.
const adminAttemptRetention = 24 * time.Hour

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron       *cron.Cron
	activities Activities
	loc        *time.Location
	retention  int
	now        func() time.Time
}

// NewScheduler создаёт планировщик в часовом поясе APP_TIMEZONE.
func NewScheduler(activities Activities, cfg *config.Config) *Scheduler {
	loc := common.LoadLocation(cfg.AppTimezone)
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		activities: activities,
		loc:        loc,
		retention:  cfg.ActivityIPRetentionDays,
		now:        time.Now,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) error {
	// Итоги дня сразу после полуночи
	if _, err := s.cron.AddFunc("5 0 * * *", func() { s.reportYesterday(ctx) }); err != nil {
		return err
	}
	// Очистка IP ночью, когда нагрузка минимальна
	if _, err := s.cron.AddFunc("30 3 * * *", func() { s.pruneIPs(ctx) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("45 3 * * *", func() { s.pruneAdminAttempts(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	log.WithField("timezone", s.loc.String()).Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и ждёт текущие задачи.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

func (s *Scheduler) reportYesterday(ctx context.Context) {
	day := common.DaysAgo(s.now(), s.loc, 1)
	n, err := s.activities.CountActivityRecords(ctx, day)
	if err != nil {
		log.WithError(err).Error("[CRON] Ошибка подсчёта участий за день")
		return
	}
	log.WithFields(log.Fields{"day": day, "records": n}).Info("[CRON] Итоги активностей за день")
}

func (s *Scheduler) pruneIPs(ctx context.Context) {
	before := common.DaysAgo(s.now(), s.loc, s.retention)
	n, err := s.activities.PruneActivityIPs(ctx, before)
	if err != nil {
		log.WithError(err).Error("[CRON] Ошибка очистки IP")
		return
	}
	log.WithFields(log.Fields{"before": before, "records": n}).Info("[CRON] Очищены IP старых участий")
}

func (s *Scheduler) pruneAdminAttempts(ctx context.Context) {
	n, err := s.activities.PruneAdminAttempts(ctx, s.now().Add(-adminAttemptRetention))
	if err != nil {
		log.WithError(err).Error("[CRON] Ошибка очистки попыток входа")
		return
	}
	log.WithField("records", n).Info("[CRON] Очищены старые попытки входа в админку")
}
