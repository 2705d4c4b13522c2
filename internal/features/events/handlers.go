package events

import (
	"github.com/gofiber/fiber/v2"

	"seaseed.dev/economy/internal/api"
)

// Handler принимает события контента от основного сервиса.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r fiber.Router) {
	g := r.Group("/events")
	g.Post("/posts", h.postPublished)
	g.Post("/posts/:id/likes", h.likeAdded)
	g.Delete("/posts/:id/likes", h.likeRemoved)
	g.Post("/posts/:id/comments", h.commentPosted)
	g.Post("/posts/:id/views", h.postViewed)
	g.Post("/posts/:id/collects", h.postCollected)
	g.Post("/comments/:id/likes", h.commentLiked)
}

func (h *Handler) postPublished(c *fiber.Ctx) error {
	userID, err := api.MustUserID(c)
	if err != nil {
		return api.Error(c, err)
	}
	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return api.Error(c, api.BadRequest("некорректное тело запроса"))
	}
	if req.PostID <= 0 {
		return api.Error(c, api.BadRequest("некорректный post_id"))
	}
	res, err := h.service.PostPublished(c.UserContext(), userID, req)
	if err != nil {
		return api.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *Handler) likeAdded(c *fiber.Ctx) error {
	userID, postID, err := userAndID(c)
	if err != nil {
		return api.Error(c, err)
	}
	res, err := h.service.LikeAdded(c.UserContext(), userID, postID)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) likeRemoved(c *fiber.Ctx) error {
	_, postID, err := userAndID(c)
	if err != nil {
		return api.Error(c, err)
	}
	res, err := h.service.LikeRemoved(c.UserContext(), postID)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) commentPosted(c *fiber.Ctx) error {
	userID, postID, err := userAndID(c)
	if err != nil {
		return api.Error(c, err)
	}
	var req CommentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return api.Error(c, api.BadRequest("некорректное тело запроса"))
		}
	}
	res, err := h.service.CommentPosted(c.UserContext(), userID, postID, req)
	if err != nil {
		return api.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Просмотр может быть анонимным.
func (h *Handler) postViewed(c *fiber.Ctx) error {
	postID, err := api.ParamID(c, "id")
	if err != nil {
		return api.Error(c, err)
	}
	userID, _ := api.UserID(c)
	res, err := h.service.PostViewed(c.UserContext(), userID, postID)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) postCollected(c *fiber.Ctx) error {
	userID, postID, err := userAndID(c)
	if err != nil {
		return api.Error(c, err)
	}
	res, err := h.service.PostCollected(c.UserContext(), userID, postID)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) commentLiked(c *fiber.Ctx) error {
	userID, commentID, err := userAndID(c)
	if err != nil {
		return api.Error(c, err)
	}
	var req CommentLikeRequest
	if err := c.BodyParser(&req); err != nil || req.AuthorID <= 0 {
		return api.Error(c, api.BadRequest("нужен author_id комментария"))
	}
	res, err := h.service.CommentLiked(c.UserContext(), userID, commentID, req.AuthorID)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(res)
}

func userAndID(c *fiber.Ctx) (int64, int64, error) {
	userID, err := api.MustUserID(c)
	if err != nil {
		return 0, 0, err
	}
	id, err := api.ParamID(c, "id")
	if err != nil {
		return 0, 0, err
	}
	return userID, id, nil
}
