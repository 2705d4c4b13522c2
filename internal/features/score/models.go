// Package score начисляет очки за действия и строит рейтинг.
// Очки дробные (просмотр: 0.1), поэтому считаются в decimal.
package score

import "github.com/shopspring/decimal"

// Action: тип действия, за которое начисляются очки.
type Action string

// Типы действий
const (
	ActionBottlePost      Action = "bottle_post"      // Пост-«бутылка» (короткий)
	ActionTopicPost       Action = "topic_post"       // Статья в ленте
	ActionComment         Action = "comment"          // Комментарий
	ActionView            Action = "view"             // Просмотр поста автора
	ActionLikeReceived    Action = "like_received"    // Автор получил лайк
	ActionCollectReceived Action = "collect_received" // Пост автора добавили в избранное
)

// Rule: строка таблицы очков.
type Rule struct {
	Action      Action          `json:"action"`
	Points      decimal.Decimal `json:"points"`
	Description string          `json:"description"`
}

// Rules: фиксированная таблица очков.
var Rules = []Rule{
	{ActionBottlePost, decimal.NewFromInt(5), "Опубликовать бутылку"},
	{ActionTopicPost, decimal.NewFromInt(10), "Опубликовать статью"},
	{ActionComment, decimal.NewFromInt(2), "Оставить комментарий"},
	{ActionView, decimal.New(1, -1), "Просмотр вашего поста"},
	{ActionLikeReceived, decimal.New(5, -1), "Лайк вашему посту"},
	{ActionCollectReceived, decimal.NewFromInt(1), "Ваш пост добавили в избранное"},
}

// PointsFor возвращает очки за действие; false: действия нет в таблице.
func PointsFor(a Action) (decimal.Decimal, bool) {
	for _, r := range Rules {
		if r.Action == a {
			return r.Points, true
		}
	}
	return decimal.Zero, false
}

// Лимиты рейтинга
const (
	DefaultRankLimit = 10
	MaxRankLimit     = 100
)
