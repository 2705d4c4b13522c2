// Package postgres: хранилище экономики на PostgreSQL.
// Используется пул соединений pgxpool: все денежные операции идут
// в транзакциях БД, списания: условными UPDATE, чтобы баланс
// не уходил в минус при параллельных запросах.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"seaseed.dev/economy/internal/config"
	"seaseed.dev/economy/internal/store"
)

// NewPool создаёт пул соединений к PostgreSQL и проверяет доступность базы.
//
// Пример:
//
//	pool, err := postgres.NewPool(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}

	poolConfig.MaxConns = cfg.DBMaxConns
	poolConfig.MinConns = cfg.DBMinConns
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("база данных недоступна: %w", err)
	}

	log.Info("Подключение к PostgreSQL установлено")
	return pool, nil
}

// Store реализует store.Store поверх pgxpool.
type Store struct {
	db *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// New создаёт хранилище. Схема должна быть уже применена (Migrate).
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Close закрывает пул.
func (s *Store) Close() error {
	s.db.Close()
	return nil
}
