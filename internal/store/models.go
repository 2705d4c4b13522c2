// Package store описывает сущности, которые хранит экономика,
// и контракт хранилища, общий для PostgreSQL и SQLite.
package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"seaseed.dev/economy/internal/currency"
)

// Статусы счёта
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Типы транзакций
const (
	TxIncome   = "income"   // Заработано за контент
	TxExpense  = "expense"  // Потрачено (в том числе на обмен)
	TxWithdraw = "withdraw" // Вывод
	TxDeposit  = "deposit"  // Пополнение
	TxBonus    = "bonus"    // Бонусы: активности, вехи, лотерея, админ
	TxTransfer = "transfer" // Перевод между пользователями
)

// TxKinds: все допустимые типы транзакций.
var TxKinds = []string{TxIncome, TxExpense, TxWithdraw, TxDeposit, TxBonus, TxTransfer}

// Account описывает счёт пользователя: пять балансов, очки и счётчики.
type Account struct {
	UserID           int64           `json:"user_id"`
	Shells           int64           `json:"shells"`
	Pearls           int64           `json:"pearls"`
	Gems             int64           `json:"gems"`
	Crystals         int64           `json:"crystals"`
	Dragonballs      int64           `json:"dragonballs"`
	Score            decimal.Decimal `json:"score"`
	PostsCount       int64           `json:"posts_count"`
	LikesReceived    int64           `json:"likes_received"`
	CommentsReceived int64           `json:"comments_received"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Balance возвращает баланс указанного уровня.
func (a *Account) Balance(t currency.Tier) int64 {
	switch t {
	case currency.Shells:
		return a.Shells
	case currency.Pearls:
		return a.Pearls
	case currency.Gems:
		return a.Gems
	case currency.Crystals:
		return a.Crystals
	case currency.Dragonballs:
		return a.Dragonballs
	}
	return 0
}

// Wealth: все балансы, пересчитанные в ракушки.
func (a *Account) Wealth() int64 {
	var total int64
	for _, t := range currency.All {
		total += a.Balance(t) * t.ShellValue()
	}
	return total
}

// Movement: одно изменение баланса.
// Amount со знаком, плюс означает начисление, минус списание.
type Movement struct {
	UserID      int64
	Currency    currency.Tier
	Amount      int64
	Kind        string
	Description string
	RelatedID   int64  // 0: без ссылки
	RelatedType string // post, comment, activity, milestone, lottery...
}

// Transaction: неизменяемая запись о движении валюты.
type Transaction struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"user_id"`
	Kind         string        `json:"kind"`
	Currency     currency.Tier `json:"currency"`
	Amount       int64         `json:"amount"`
	BalanceAfter int64         `json:"balance_after"`
	Description  string        `json:"description"`
	RelatedID    int64         `json:"related_id,omitempty"`
	RelatedType  string        `json:"related_type,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// ScoreRecord: неизменяемая запись о начислении очков.
type ScoreRecord struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Action      string          `json:"action"`
	Points      decimal.Decimal `json:"points"`
	RelatedID   int64           `json:"related_id,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ScoreEntry: строка рейтинга по очкам.
type ScoreEntry struct {
	UserID int64           `json:"user_id"`
	Score  decimal.Decimal `json:"score"`
}

// ScoreBucket: сумма очков по одному типу действия.
type ScoreBucket struct {
	Action string          `json:"action"`
	Points decimal.Decimal `json:"points"`
	Count  int64           `json:"count"`
}

// BalanceEntry: строка рейтинга по балансу (или по богатству в ракушках).
type BalanceEntry struct {
	UserID int64 `json:"user_id"`
	Value  int64 `json:"value"`
}

// Субъекты вех
const (
	SubjectPost = "post"
	SubjectUser = "user"
)

// MilestoneClaim: отметка «бонус за порог уже выплачен».
// Ключ (SubjectType, SubjectID, Threshold) уникален навсегда.
type MilestoneClaim struct {
	SubjectType string    `json:"subject_type"`
	SubjectID   int64     `json:"subject_id"`
	Threshold   string    `json:"threshold"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ActivityRecord: одно участие в ежедневной активности.
type ActivityRecord struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	ActivityID string    `json:"activity_id"`
	Day        string    `json:"day"`
	IP         string    `json:"-"`
	Content    string    `json:"content,omitempty"`
	Reward     int64     `json:"reward"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostMetric: имя счётчика поста.
type PostMetric string

const (
	MetricLikes    PostMetric = "likes"
	MetricComments PostMetric = "comments"
	MetricCollects PostMetric = "collects"
	MetricViews    PostMetric = "views"
)

// Post: счётчики поста, которые читают вехи и лотерея.
type Post struct {
	PostID    int64     `json:"post_id"`
	AuthorID  int64     `json:"author_id"`
	Kind      string    `json:"kind"`
	Day       string    `json:"day"`
	Likes     int64     `json:"likes"`
	Comments  int64     `json:"comments"`
	Collects  int64     `json:"collects"`
	Views     int64     `json:"views"`
	CreatedAt time.Time `json:"created_at"`
}

// Metric возвращает значение счётчика.
func (p *Post) Metric(m PostMetric) int64 {
	switch m {
	case MetricLikes:
		return p.Likes
	case MetricComments:
		return p.Comments
	case MetricCollects:
		return p.Collects
	case MetricViews:
		return p.Views
	}
	return 0
}

// ValidMetric сообщает, есть ли такой счётчик у поста.
func ValidMetric(m PostMetric) bool {
	switch m {
	case MetricLikes, MetricComments, MetricCollects, MetricViews:
		return true
	}
	return false
}

// AuthorCounter: колонка счётчика автора, которую двигает метрика поста.
// Пустая строка: метрика автора не затрагивает.
func AuthorCounter(m PostMetric) string {
	switch m {
	case MetricLikes:
		return "likes_received"
	case MetricComments:
		return "comments_received"
	}
	return ""
}

// ToCenti переводит очки в сотые (лишние знаки отбрасываются).
func ToCenti(d decimal.Decimal) int64 {
	return d.Shift(2).IntPart()
}

// FromCenti переводит сотые обратно в очки.
func FromCenti(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

// WealthSQL: выражение богатства в ракушках для колонок таблицы accounts.
func WealthSQL() string {
	expr := ""
	for i, t := range currency.All {
		if i > 0 {
			expr += " + "
		}
		if t == currency.Shells {
			expr += t.Column()
			continue
		}
		expr += fmt.Sprintf("%s * %d", t.Column(), t.ShellValue())
	}
	return expr
}
