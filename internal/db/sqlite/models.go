package sqlite

import (
	"time"

	"seaseed.dev/economy/internal/currency"
	"seaseed.dev/economy/internal/store"
)

// accountRow: строка таблицы accounts.
type accountRow struct {
	UserID           int64  `gorm:"primaryKey;autoIncrement:false"`
	Shells           int64  `gorm:"not null;default:0;check:shells >= 0"`
	Pearls           int64  `gorm:"not null;default:0;check:pearls >= 0"`
	Gems             int64  `gorm:"not null;default:0;check:gems >= 0"`
	Crystals         int64  `gorm:"not null;default:0;check:crystals >= 0"`
	Dragonballs      int64  `gorm:"not null;default:0;check:dragonballs >= 0"`
	ScoreCenti       int64  `gorm:"column:score_centi;not null;default:0;index"`
	PostsCount       int64  `gorm:"not null;default:0"`
	LikesReceived    int64  `gorm:"not null;default:0"`
	CommentsReceived int64  `gorm:"not null;default:0"`
	Status           string `gorm:"size:16;not null;default:active;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (accountRow) TableName() string { return "accounts" }

func (r *accountRow) toDomain() *store.Account {
	return &store.Account{
		UserID:           r.UserID,
		Shells:           r.Shells,
		Pearls:           r.Pearls,
		Gems:             r.Gems,
		Crystals:         r.Crystals,
		Dragonballs:      r.Dragonballs,
		Score:            store.FromCenti(r.ScoreCenti),
		PostsCount:       r.PostsCount,
		LikesReceived:    r.LikesReceived,
		CommentsReceived: r.CommentsReceived,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// transactionRow: строка журнала транзакций.
type transactionRow struct {
	ID           int64  `gorm:"primaryKey"`
	UserID       int64  `gorm:"not null;index"`
	Kind         string `gorm:"size:16;not null;index"`
	Currency     string `gorm:"size:16;not null"`
	Amount       int64  `gorm:"not null"`
	BalanceAfter int64  `gorm:"not null"`
	Description  string `gorm:"size:255"`
	RelatedID    int64
	RelatedType  string `gorm:"size:32"`
	CreatedAt    time.Time
}

func (transactionRow) TableName() string { return "transactions" }

func (r *transactionRow) toDomain() store.Transaction {
	tier, _ := currency.Parse(r.Currency)
	return store.Transaction{
		ID:           r.ID,
		UserID:       r.UserID,
		Kind:         r.Kind,
		Currency:     tier,
		Amount:       r.Amount,
		BalanceAfter: r.BalanceAfter,
		Description:  r.Description,
		RelatedID:    r.RelatedID,
		RelatedType:  r.RelatedType,
		CreatedAt:    r.CreatedAt,
	}
}

// scoreRecordRow: строка журнала очков.
type scoreRecordRow struct {
	ID          int64  `gorm:"primaryKey"`
	UserID      int64  `gorm:"not null;index"`
	Action      string `gorm:"size:32;not null"`
	PointsCenti int64  `gorm:"column:points_centi;not null"`
	RelatedID   int64
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
}

func (scoreRecordRow) TableName() string { return "score_records" }

func (r *scoreRecordRow) toDomain() store.ScoreRecord {
	return store.ScoreRecord{
		ID:          r.ID,
		UserID:      r.UserID,
		Action:      r.Action,
		Points:      store.FromCenti(r.PointsCenti),
		RelatedID:   r.RelatedID,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

// milestoneRow: отметка о выплаченной вехе. Составной первичный ключ
// и есть гарантия «не больше одного раза».
type milestoneRow struct {
	SubjectType string `gorm:"primaryKey;size:8"`
	SubjectID   int64  `gorm:"primaryKey;autoIncrement:false"`
	Threshold   string `gorm:"primaryKey;size:32"`
	UserID      int64  `gorm:"not null;index"`
	CreatedAt   time.Time
}

func (milestoneRow) TableName() string { return "milestone_claims" }

// activityRow: участие в активности.
type activityRow struct {
	ID         int64  `gorm:"primaryKey"`
	UserID     int64  `gorm:"not null;uniqueIndex:idx_activity_user_day"`
	ActivityID string `gorm:"size:32;not null;uniqueIndex:idx_activity_user_day;index:idx_activity_ip_day"`
	Day        string `gorm:"size:10;not null;uniqueIndex:idx_activity_user_day;index:idx_activity_ip_day"`
	IP         string `gorm:"column:ip;size:64;not null;default:'';index:idx_activity_ip_day"`
	Content    string `gorm:"size:500"`
	Reward     int64  `gorm:"not null"`
	CreatedAt  time.Time
}

func (activityRow) TableName() string { return "activity_records" }

func (r *activityRow) toDomain() store.ActivityRecord {
	return store.ActivityRecord{
		ID:         r.ID,
		UserID:     r.UserID,
		ActivityID: r.ActivityID,
		Day:        r.Day,
		IP:         r.IP,
		Content:    r.Content,
		Reward:     r.Reward,
		CreatedAt:  r.CreatedAt,
	}
}

// postRow: счётчики поста.
type postRow struct {
	PostID    int64  `gorm:"primaryKey;autoIncrement:false"`
	AuthorID  int64  `gorm:"not null;index:idx_posts_author_day"`
	Kind      string `gorm:"size:16;not null"`
	Day       string `gorm:"size:10;not null;index:idx_posts_author_day"`
	Likes     int64  `gorm:"not null;default:0"`
	Comments  int64  `gorm:"not null;default:0"`
	Collects  int64  `gorm:"not null;default:0"`
	Views     int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
}

func (postRow) TableName() string { return "post_stats" }

func (r *postRow) toDomain() *store.Post {
	return &store.Post{
		PostID:    r.PostID,
		AuthorID:  r.AuthorID,
		Kind:      r.Kind,
		Day:       r.Day,
		Likes:     r.Likes,
		Comments:  r.Comments,
		Collects:  r.Collects,
		Views:     r.Views,
		CreatedAt: r.CreatedAt,
	}
}

// adminAttemptRow: попытка входа в админку.
type adminAttemptRow struct {
	ID          int64     `gorm:"primaryKey"`
	Client      string    `gorm:"size:64;not null;index:idx_admin_attempts_client"`
	Success     bool      `gorm:"not null;default:false"`
	AttemptTime time.Time `gorm:"not null;index:idx_admin_attempts_client"`
}

func (adminAttemptRow) TableName() string { return "admin_login_attempts" }
