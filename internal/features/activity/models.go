// Package activity ведёт ежедневные активности (отметка, пост дня и т.п.).
// Каждую активность пользователь выполняет не больше раза в календарный день,
// а с одного IP за день засчитывается не больше IPLimit участий.
package activity

import (
	"seaseed.dev/economy/internal/currency"
	"seaseed.dev/economy/internal/features/lottery"
)

// Activity: запись каталога.
type Activity struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Reward   int64         `json:"reward"`
	Currency currency.Tier `json:"currency"`
	// Дневной лимит участий с одного IP. 0: берётся лимит по умолчанию.
	IPLimit int `json:"ip_limit"`
}

// Catalog: все известные активности. Награда в ракушках.
var Catalog = []Activity{
	{ID: "daily_checkin", Name: "Ежедневная отметка", Reward: 5, Currency: currency.Shells, IPLimit: 10},
	{ID: "daily_post", Name: "Пост дня", Reward: 2, Currency: currency.Shells, IPLimit: 5},
	{ID: "daily_like", Name: "Лайк дня", Reward: 1, Currency: currency.Shells, IPLimit: 20},
	{ID: "daily_comment", Name: "Комментарий дня", Reward: 1, Currency: currency.Shells, IPLimit: 10},
	{ID: "daily_timed_post", Name: "Пост по расписанию", Reward: 2, Currency: currency.Shells, IPLimit: 1},
}

// Find ищет активность по ID.
func Find(id string) (Activity, bool) {
	for _, a := range Catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Activity{}, false
}

// Лимиты выдачи
const (
	DefaultRecordsLimit = 50
	MaxRecordsLimit     = 100
)

// JoinRequest: тело POST /activities/:id/join.
type JoinRequest struct {
	Content string `json:"content"`
}

// Result: итог участия.
type Result struct {
	ActivityID  string          `json:"activity_id"`
	Day         string          `json:"day"`
	Reward      int64           `json:"reward"`
	Currency    currency.Tier   `json:"currency"`
	TodayTotal  int64           `json:"today_total"`
	IPLimit     int             `json:"ip_limit"`
	IPUsed      int             `json:"ip_used"`
	IPRemaining int             `json:"ip_remaining"`
	Lottery     lottery.Outcome `json:"lottery"`
}
