package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Migrate создаёт таблицу schema_migrations и применяет все миграции по порядку.
// Уже применённые версии пропускаются.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("ошибка создания таблицы миграций: %w", err)
	}

	for _, m := range migrations {
		applied, err := ExecMigrationSQL(ctx, pool, m.version, m.sql)
		if err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		if applied {
			log.Infof("Миграция %d применена", m.version)
		}
	}
	return nil
}

// ExecMigrationSQL выполняет одну миграцию в транзакции и записывает её версию.
// Возвращает false, если версия уже была применена.
func ExecMigrationSQL(ctx context.Context, pool *pgxpool.Pool, version int, sql string) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки миграции: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.Exec(ctx, sql); err != nil {
		return false, fmt.Errorf("ошибка выполнения миграции %d: %w", version, err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1)", version,
	); err != nil {
		return false, fmt.Errorf("ошибка записи версии миграции: %w", err)
	}

	return true, tx.Commit(ctx)
}

// SQL-миграции встроены в код для упрощения деплоя.
var migrations = []struct {
	version int
	sql     string
}{
	{1, migration001Accounts},
	{2, migration002Transactions},
	{3, migration003Scores},
	{4, migration004Milestones},
	{5, migration005Activities},
	{6, migration006Posts},
	{7, migration007AdminAttempts},
}

var migration001Accounts = `
CREATE TABLE IF NOT EXISTS accounts (
    user_id BIGINT PRIMARY KEY,
    shells BIGINT NOT NULL DEFAULT 0 CHECK (shells >= 0),
    pearls BIGINT NOT NULL DEFAULT 0 CHECK (pearls >= 0),
    gems BIGINT NOT NULL DEFAULT 0 CHECK (gems >= 0),
    crystals BIGINT NOT NULL DEFAULT 0 CHECK (crystals >= 0),
    dragonballs BIGINT NOT NULL DEFAULT 0 CHECK (dragonballs >= 0),
    score_centi BIGINT NOT NULL DEFAULT 0,
    posts_count BIGINT NOT NULL DEFAULT 0,
    likes_received BIGINT NOT NULL DEFAULT 0,
    comments_received BIGINT NOT NULL DEFAULT 0,
    status VARCHAR(16) NOT NULL DEFAULT 'active',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_accounts_score ON accounts (score_centi DESC, user_id) WHERE status = 'active';
`

var migration002Transactions = `
CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES accounts(user_id),
    kind VARCHAR(16) NOT NULL CHECK (kind IN ('income', 'expense', 'withdraw', 'deposit', 'bonus', 'transfer')),
    currency VARCHAR(16) NOT NULL,
    amount BIGINT NOT NULL,
    balance_after BIGINT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    related_id BIGINT NOT NULL DEFAULT 0,
    related_type VARCHAR(32) NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions (user_id, id DESC);
`

var migration003Scores = `
CREATE TABLE IF NOT EXISTS score_records (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES accounts(user_id),
    action VARCHAR(32) NOT NULL,
    points_centi BIGINT NOT NULL,
    related_id BIGINT NOT NULL DEFAULT 0,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_score_records_user ON score_records (user_id, id DESC);
`

var migration004Milestones = `
CREATE TABLE IF NOT EXISTS milestone_claims (
    subject_type VARCHAR(8) NOT NULL,
    subject_id BIGINT NOT NULL,
    threshold VARCHAR(32) NOT NULL,
    user_id BIGINT NOT NULL REFERENCES accounts(user_id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (subject_type, subject_id, threshold)
);
`

var migration005Activities = `
CREATE TABLE IF NOT EXISTS activity_records (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES accounts(user_id),
    activity_id VARCHAR(32) NOT NULL,
    day VARCHAR(10) NOT NULL,
    ip VARCHAR(64) NOT NULL DEFAULT '',
    content VARCHAR(500) NOT NULL DEFAULT '',
    reward BIGINT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, activity_id, day)
);
CREATE INDEX IF NOT EXISTS idx_activity_ip_day ON activity_records (activity_id, ip, day);
`

var migration006Posts = `
CREATE TABLE IF NOT EXISTS post_stats (
    post_id BIGINT PRIMARY KEY,
    author_id BIGINT NOT NULL REFERENCES accounts(user_id),
    kind VARCHAR(16) NOT NULL,
    day VARCHAR(10) NOT NULL,
    likes BIGINT NOT NULL DEFAULT 0,
    comments BIGINT NOT NULL DEFAULT 0,
    collects BIGINT NOT NULL DEFAULT 0,
    views BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_posts_author_day ON post_stats (author_id, day);
`

var migration007AdminAttempts = `
CREATE TABLE IF NOT EXISTS admin_login_attempts (
    id BIGSERIAL PRIMARY KEY,
    client VARCHAR(64) NOT NULL,
    success BOOLEAN NOT NULL DEFAULT FALSE,
    attempt_time TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_admin_attempts_client ON admin_login_attempts (client, attempt_time);
`
