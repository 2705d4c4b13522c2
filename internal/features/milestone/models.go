// Package milestone выдаёт разовые бонусы за пороги накопленных счётчиков:
// лайки и комментарии поста, число постов пользователя.
//
// Каждый порог оплачивается не больше одного раза за всю жизнь субъекта.
// Отметка об оплате хранится в базе и ставится в той же транзакции, что и начисление.
package milestone

import (
	"fmt"

	"seaseed.dev/economy/internal/currency"
	"seaseed.dev/economy/internal/store"
)

// Метрики
const (
	MetricLikes    = "likes"
	MetricComments = "comments"
	MetricPosts    = "posts"
)

// Rule: один порог таблицы вех.
type Rule struct {
	Subject   string        `json:"subject"`
	Metric    string        `json:"metric"`
	Threshold int64         `json:"threshold"`
	Currency  currency.Tier `json:"currency"`
	Amount    int64         `json:"amount"`
}

// Key: ключ порога, например likes_10.
func (r Rule) Key() string {
	return fmt.Sprintf("%s_%d", r.Metric, r.Threshold)
}

// PostRules: пороги для поста (платятся автору).
var PostRules = []Rule{
	{store.SubjectPost, MetricLikes, 10, currency.Pearls, 1},
	{store.SubjectPost, MetricLikes, 50, currency.Pearls, 5},
	{store.SubjectPost, MetricLikes, 100, currency.Gems, 1},
	{store.SubjectPost, MetricComments, 10, currency.Pearls, 2},
	{store.SubjectPost, MetricComments, 50, currency.Gems, 1},
}

// UserRules: пороги по числу постов пользователя.
var UserRules = []Rule{
	{store.SubjectUser, MetricPosts, 10, currency.Pearls, 5},
	{store.SubjectUser, MetricPosts, 50, currency.Gems, 3},
	{store.SubjectUser, MetricPosts, 100, currency.Crystals, 1},
}

// Bonus: бонус, выданный в этом вызове.
type Bonus struct {
	Key       string        `json:"key"`
	SubjectID int64         `json:"subject_id"`
	UserID    int64         `json:"user_id"`
	Currency  currency.Tier `json:"currency"`
	Amount    int64         `json:"amount"`
}
