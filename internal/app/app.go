// Package app инициализирует все компоненты приложения.
// app.go собирает всё вместе: открывает хранилище, создаёт сервисы, обработчики,
// HTTP-сервер и планировщик.
package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"seaseed.dev/economy/internal/config"
	"seaseed.dev/economy/internal/db/postgres"
	"seaseed.dev/economy/internal/db/sqlite"
	"seaseed.dev/economy/internal/features/activity"
	"seaseed.dev/economy/internal/features/admin"
	"seaseed.dev/economy/internal/features/events"
	"seaseed.dev/economy/internal/features/exchange"
	"seaseed.dev/economy/internal/features/ledger"
	"seaseed.dev/economy/internal/features/lottery"
	"seaseed.dev/economy/internal/features/milestone"
	"seaseed.dev/economy/internal/features/score"
	"seaseed.dev/economy/internal/jobs"
	"seaseed.dev/economy/internal/server"
	"seaseed.dev/economy/internal/store"
)

// App содержит все компоненты приложения.
type App struct {
	Server    *server.Server
	Scheduler *jobs.Scheduler
	Store     store.Store
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен: компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Хранилище ===
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// === 2. Сервисы ===
	ledgerService := ledger.NewService(st)
	exchangeService := exchange.NewService(ledgerService)
	scoreService := score.NewService(st)
	milestoneService := milestone.NewService(st)
	lotteryService := lottery.NewService(ledgerService, nil, lottery.Settings{
		Enabled:       cfg.FeatureLotteryEnabled,
		TriggerChance: cfg.LotteryTriggerChance,
	})
	activityService := activity.NewService(st, lotteryService, cfg)
	eventService := events.NewService(st, ledgerService, scoreService, milestoneService, lotteryService, cfg)
	adminService := admin.NewService(ledgerService, lotteryService, st, cfg.AdminPasswordHash)
	if cfg.AdminPasswordHash == "" {
		log.Warn("ADMIN_PASSWORD_HASH не задан, админка отключена")
	}

	// === 3. Обработчики и HTTP ===
	srv := server.New(cfg,
		ledger.NewHandler(ledgerService),
		exchange.NewHandler(exchangeService),
		score.NewHandler(scoreService, ledgerService),
		milestone.NewHandler(milestoneService),
		lottery.NewHandler(lotteryService),
		activity.NewHandler(activityService),
		events.NewHandler(eventService),
		admin.NewHandler(adminService),
	)

	// === 4. Планировщик задач ===
	scheduler := jobs.NewScheduler(st, cfg)

	return &App{
		Server:    srv,
		Scheduler: scheduler,
		Store:     st,
	}, nil
}

// openStore открывает хранилище по DB_DRIVER и применяет схему.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия SQLite: %w", err)
		}
		log.WithField("path", cfg.SQLitePath).Info("Хранилище: SQLite")
		return st, nil
	default:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		log.Info("Хранилище: PostgreSQL")
		return postgres.New(pool), nil
	}
}
