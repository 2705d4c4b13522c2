package events

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/config"
	"seaseed.dev/economy/internal/currency"
	"seaseed.dev/economy/internal/features/lottery"
	"seaseed.dev/economy/internal/features/milestone"
	"seaseed.dev/economy/internal/features/score"
	"seaseed.dev/economy/internal/store"
)

// Service применяет правила наград к событиям контента.
//
// Основное изменение события (счётчик поста) проводится первым. Побочные
// награды (очки, вехи, лотерея) не откатывают событие: их ошибки пишутся в лог.
type Service struct {
	repo       Repository
	ledger     Ledger
	scores     Scorer
	milestones Milestones
	lottery    Lottery

	postsThreshold    int
	commentsThreshold int64
	loc               *time.Location
	now               func() time.Time
}

// NewService создаёт фасад событий.
func NewService(repo Repository, ledger Ledger, scores Scorer, milestones Milestones, lot Lottery, cfg *config.Config) *Service {
	return &Service{
		repo:              repo,
		ledger:            ledger,
		scores:            scores,
		milestones:        milestones,
		lottery:           lot,
		postsThreshold:    cfg.PostsLotteryThreshold,
		commentsThreshold: int64(cfg.CommentsLotteryThreshold),
		loc:               common.LoadLocation(cfg.AppTimezone),
		now:               time.Now,
	}
}

// PostPublished регистрирует новый пост автора.
// Автор получает очки по виду поста и ракушки по длине текста; если это уже
// N-й пост за день: лотерейную возможность; затем проверяются вехи по числу постов.
func (s *Service) PostPublished(ctx context.Context, authorID int64, req PostRequest) (*Result, error) {
	if err := s.ledger.EnsureAccount(ctx, authorID); err != nil {
		return nil, err
	}

	day := common.DayKey(s.now(), s.loc)
	err := s.repo.CreatePost(ctx, store.Post{
		PostID:   req.PostID,
		AuthorID: authorID,
		Kind:     req.Kind,
		Day:      day,
	})
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if action, ok := PostAction(req.Kind); ok {
		res.Score = s.scores.Award(ctx, authorID, action, req.PostID, fmt.Sprintf("Публикация поста #%d", req.PostID))
	}

	reward := PostReward(req.Kind, req.Content)
	if s.credit(ctx, authorID, reward, req.PostID, "post", fmt.Sprintf("Публикация поста #%d", req.PostID)) {
		res.Shells = reward
	}

	if n, err := s.repo.CountPostsOn(ctx, authorID, day); err != nil {
		log.WithError(err).WithField("user_id", authorID).Error("Не удалось посчитать посты за день")
	} else if n >= s.postsThreshold {
		res.Lottery = s.maybeLottery(ctx, authorID, "posts")
	}

	bonuses, err := s.milestones.CheckUser(ctx, authorID)
	if err != nil {
		log.WithError(err).WithField("user_id", authorID).Error("Ошибка проверки вех пользователя")
	}
	res.Milestones = bonuses

	post, err := s.repo.GetPost(ctx, req.PostID)
	if err != nil {
		log.WithError(err).WithField("post_id", req.PostID).Error("Не удалось прочитать пост после публикации")
	}
	res.Post = post

	log.WithFields(log.Fields{
		"user_id": authorID,
		"post_id": req.PostID,
		"kind":    req.Kind,
		"shells":  res.Shells,
	}).Info("Пост опубликован")
	return res, nil
}

// LikeAdded: лайк посту. Автор получает очки и ракушку, если лайк не свой.
func (s *Service) LikeAdded(ctx context.Context, likerID, postID int64) (*Result, error) {
	post, err := s.repo.BumpPost(ctx, postID, store.MetricLikes, 1)
	if err != nil {
		return nil, err
	}
	res := &Result{Post: post}

	if likerID != post.AuthorID {
		res.Score = s.scores.Award(ctx, post.AuthorID, score.ActionLikeReceived, postID, fmt.Sprintf("Лайк посту #%d", postID))
		if s.credit(ctx, post.AuthorID, LikeReward, postID, "post", fmt.Sprintf("Лайк посту #%d", postID)) {
			res.Shells = LikeReward
		}
	}

	res.Milestones = s.checkPost(ctx, post)
	return res, nil
}

// LikeRemoved: снятие лайка. Счётчик уменьшается, награды не отзываются.
func (s *Service) LikeRemoved(ctx context.Context, postID int64) (*Result, error) {
	post, err := s.repo.BumpPost(ctx, postID, store.MetricLikes, -1)
	if err != nil {
		return nil, err
	}
	return &Result{Post: post}, nil
}

// CommentLiked: лайк комментарию. Автор комментария получает очки и ракушку.
func (s *Service) CommentLiked(ctx context.Context, likerID, commentID, authorID int64) (*Result, error) {
	if authorID <= 0 {
		return nil, common.ErrAccountNotFound
	}
	res := &Result{}
	if likerID == authorID {
		return res, nil
	}
	if err := s.ledger.EnsureAccount(ctx, authorID); err != nil {
		return nil, err
	}
	desc := fmt.Sprintf("Лайк комментарию #%d", commentID)
	res.Score = s.scores.Award(ctx, authorID, score.ActionLikeReceived, commentID, desc)
	if s.credit(ctx, authorID, LikeReward, commentID, "comment", desc) {
		res.Shells = LikeReward
	}
	return res, nil
}

// CommentPosted: комментарий к посту. Комментатор получает очки. Автор поста,
// если это не он сам, получает ракушки, а при достаточном числе комментариев
// ещё и лотерейную возможность.
func (s *Service) CommentPosted(ctx context.Context, commenterID, postID int64, req CommentRequest) (*Result, error) {
	if err := s.ledger.EnsureAccount(ctx, commenterID); err != nil {
		return nil, err
	}
	post, err := s.repo.BumpPost(ctx, postID, store.MetricComments, 1)
	if err != nil {
		return nil, err
	}

	res := &Result{Post: post}
	res.Score = s.scores.Award(ctx, commenterID, score.ActionComment, postID, fmt.Sprintf("Комментарий к посту #%d", postID))

	if commenterID != post.AuthorID {
		desc := fmt.Sprintf("Комментарий к посту #%d", postID)
		if s.credit(ctx, post.AuthorID, CommentReward, postID, "post", desc) {
			res.Shells = CommentReward
		}
		if post.Comments >= s.commentsThreshold {
			res.Lottery = s.maybeLottery(ctx, post.AuthorID, "comments")
		}
	}

	res.Milestones = s.checkPost(ctx, post)
	return res, nil
}

// PostViewed учитывает просмотр поста. viewerID == 0 означает анонимный просмотр.
func (s *Service) PostViewed(ctx context.Context, viewerID, postID int64) (*Result, error) {
	post, err := s.repo.BumpPost(ctx, postID, store.MetricViews, 1)
	if err != nil {
		return nil, err
	}
	res := &Result{Post: post}
	if viewerID != post.AuthorID {
		res.Score = s.scores.Award(ctx, post.AuthorID, score.ActionView, postID, fmt.Sprintf("Просмотр поста #%d", postID))
	}
	return res, nil
}

// PostCollected: пост добавили в избранное.
func (s *Service) PostCollected(ctx context.Context, userID, postID int64) (*Result, error) {
	post, err := s.repo.BumpPost(ctx, postID, store.MetricCollects, 1)
	if err != nil {
		return nil, err
	}
	res := &Result{Post: post}
	if userID != post.AuthorID {
		res.Score = s.scores.Award(ctx, post.AuthorID, score.ActionCollectReceived, postID, fmt.Sprintf("Пост #%d в избранном", postID))
	}
	return res, nil
}

// credit начисляет ракушки как income. Ошибка не прерывает событие.
func (s *Service) credit(ctx context.Context, userID, amount, relatedID int64, relatedType, description string) bool {
	_, err := s.ledger.Credit(ctx, store.Movement{
		UserID:      userID,
		Currency:    currency.Shells,
		Amount:      amount,
		Kind:        store.TxIncome,
		Description: description,
		RelatedID:   relatedID,
		RelatedType: relatedType,
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user_id": userID,
			"amount":  amount,
		}).Error("Не удалось начислить ракушки")
		return false
	}
	return true
}

func (s *Service) checkPost(ctx context.Context, post *store.Post) []milestone.Bonus {
	bonuses, err := s.milestones.CheckPost(ctx, post.PostID, post.AuthorID)
	if err != nil {
		log.WithError(err).WithField("post_id", post.PostID).Error("Ошибка проверки вех поста")
	}
	return bonuses
}

func (s *Service) maybeLottery(ctx context.Context, userID int64, reason string) *lottery.Outcome {
	if s.lottery == nil {
		return nil
	}
	out, err := s.lottery.MaybeTrigger(ctx, userID, reason)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка лотереи")
		return nil
	}
	return &out
}
