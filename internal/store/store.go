package store

import (
	"context"
	"time"

	"seaseed.dev/economy/internal/currency"
)

// Store: контракт хранилища. Каждый метод атомарен:
// либо все изменения вызова зафиксированы, либо ни одного.
type Store interface {
	Accounts
	Ledger
	Scores
	Milestones
	Activities
	Posts
	AdminAttempts
	Close() error
}

// Accounts: счета пользователей.
type Accounts interface {
	// EnsureAccount создаёт пустой счёт, если его ещё нет.
	EnsureAccount(ctx context.Context, userID int64) error
	// GetAccount возвращает счёт или common.ErrAccountNotFound.
	GetAccount(ctx context.Context, userID int64) (*Account, error)
	SetAccountStatus(ctx context.Context, userID int64, status string) error
}

// Ledger: балансы и журнал транзакций.
type Ledger interface {
	// Apply проводит все движения в одной транзакции БД.
	// Списание, уводящее баланс в минус, отменяет весь вызов с common.ErrInsufficientFunds.
	Apply(ctx context.Context, movements ...Movement) ([]Transaction, error)
	ListTransactions(ctx context.Context, userID int64, kind string, limit int) ([]Transaction, error)
	TopBalances(ctx context.Context, tier currency.Tier, limit int) ([]BalanceEntry, error)
	TopWealth(ctx context.Context, limit int) ([]BalanceEntry, error)
}

// Scores: очки и их журнал.
type Scores interface {
	// AwardScore увеличивает очки и пишет ScoreRecord в одной транзакции.
	AwardScore(ctx context.Context, rec ScoreRecord) error
	TopScores(ctx context.Context, limit int) ([]ScoreEntry, error)
	ScoreBreakdown(ctx context.Context, userID int64) ([]ScoreBucket, error)
	ListScoreRecords(ctx context.Context, userID int64, limit int) ([]ScoreRecord, error)
}

// Milestones: отметки о выплаченных вехах.
type Milestones interface {
	// ClaimMilestone ставит отметку и проводит grant в одной транзакции.
	// false: отметка уже стояла, ничего не начислено.
	ClaimMilestone(ctx context.Context, claim MilestoneClaim, grant Movement) (bool, error)
	ListMilestoneClaims(ctx context.Context, subjectType string, subjectID int64) ([]MilestoneClaim, error)
}

// Activities: журнал ежедневных активностей.
type Activities interface {
	// JoinActivity проверяет IP-лимит и уникальность (user, activity, day),
	// пишет запись и начисляет награду. Возвращает число участий с IP за день,
	// включая это.
	JoinActivity(ctx context.Context, rec ActivityRecord, ipLimit int, grant Movement) (int, error)
	ListActivityRecords(ctx context.Context, userID int64, limit int) ([]ActivityRecord, error)
	ActivityRewardTotal(ctx context.Context, userID int64, day string) (int64, error)
	CountActivityRecords(ctx context.Context, day string) (int64, error)
	// PruneActivityIPs стирает IP у записей старше beforeDay.
	PruneActivityIPs(ctx context.Context, beforeDay string) (int64, error)
}

// Posts: счётчики постов.
type Posts interface {
	// CreatePost регистрирует пост и увеличивает posts_count автора.
	CreatePost(ctx context.Context, post Post) error
	GetPost(ctx context.Context, postID int64) (*Post, error)
	CountPostsOn(ctx context.Context, authorID int64, day string) (int, error)
	// BumpPost сдвигает счётчик поста (не ниже нуля). Лайки и комментарии
	// так же сдвигают likes_received / comments_received автора.
	BumpPost(ctx context.Context, postID int64, metric PostMetric, delta int64) (*Post, error)
}

// AdminAttempts: журнал попыток входа в админку.
type AdminAttempts interface {
	// ReserveAdminAttempt считает неудачные попытки клиента за окно
	// (at-window, at] и, если их меньше max, записывает новую попытку как
	// неудачную. Проверка и запись сериализованы по клиенту. При исчерпанном
	// лимите: common.ErrTooManyAttempts, ничего не пишется.
	ReserveAdminAttempt(ctx context.Context, client string, at time.Time, window time.Duration, max int) (int64, error)
	// MarkAdminAttemptSuccess отмечает попытку как успешную.
	MarkAdminAttemptSuccess(ctx context.Context, id int64) error
	// PruneAdminAttempts удаляет попытки старше before.
	PruneAdminAttempts(ctx context.Context, before time.Time) (int64, error)
}
