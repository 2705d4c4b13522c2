// Package events принимает события контента: публикация,
// лайк, комментарий, просмотр, избранное. Для каждого события здесь
// собраны правила наград: очки, ракушки, вехи и лотерея.
package events

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"seaseed.dev/economy/internal/features/lottery"
	"seaseed.dev/economy/internal/features/milestone"
	"seaseed.dev/economy/internal/features/score"
	"seaseed.dev/economy/internal/store"
)

// Виды постов
const (
	KindBubble   = "bubble"   // Короткая «бутылка»
	KindTimeline = "timeline" // Статья в ленте
)

// Ракушки, которые получает автор за реакции
const (
	LikeReward    int64 = 1
	CommentReward int64 = 2
)

// PostAction возвращает действие для очков за публикацию; false, если за этот вид очков нет.
func PostAction(kind string) (score.Action, bool) {
	switch kind {
	case KindBubble:
		return score.ActionBottlePost, true
	case KindTimeline:
		return score.ActionTopicPost, true
	}
	return "", false
}

// PostReward: ракушки за публикацию в зависимости от длины текста (в символах).
//
//	bubble:   ≥100 → 5, ≥50 → 3, ≥20 → 2, иначе 1
//	timeline: ≥500 → 20, ≥300 → 15, ≥100 → 10, иначе 5
//	прочее:   1
func PostReward(kind, content string) int64 {
	n := utf8.RuneCountInString(content)
	switch kind {
	case KindBubble:
		switch {
		case n >= 100:
			return 5
		case n >= 50:
			return 3
		case n >= 20:
			return 2
		}
		return 1
	case KindTimeline:
		switch {
		case n >= 500:
			return 20
		case n >= 300:
			return 15
		case n >= 100:
			return 10
		}
		return 5
	}
	return 1
}

// PostRequest: тело POST /events/posts.
type PostRequest struct {
	PostID  int64  `json:"post_id"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// CommentRequest: тело POST /events/posts/:id/comments.
type CommentRequest struct {
	CommentID int64  `json:"comment_id"`
	Content   string `json:"content"`
}

// CommentLikeRequest: тело POST /events/comments/:id/likes.
type CommentLikeRequest struct {
	AuthorID int64 `json:"author_id"`
}

// Result: что выдано по событию.
type Result struct {
	Post       *store.Post       `json:"post,omitempty"`
	Shells     int64             `json:"shells"`
	Score      decimal.Decimal   `json:"score"`
	Milestones []milestone.Bonus `json:"milestones,omitempty"`
	Lottery    *lottery.Outcome  `json:"lottery,omitempty"`
}
