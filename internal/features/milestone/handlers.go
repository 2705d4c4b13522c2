package milestone

import (
	"github.com/gofiber/fiber/v2"

	"seaseed.dev/economy/internal/api"
	"seaseed.dev/economy/internal/store"
)

// Handler: просмотр таблицы вех и оплаченных порогов.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r fiber.Router) {
	r.Get("/milestones/rules", h.rules)
	r.Get("/milestones/me", h.mine)
	r.Get("/milestones/posts/:id", h.post)
}

func (h *Handler) rules(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"post": PostRules, "user": UserRules})
}

func (h *Handler) mine(c *fiber.Ctx) error {
	userID, err := api.MustUserID(c)
	if err != nil {
		return api.Error(c, err)
	}
	claims, err := h.service.Claims(c.UserContext(), store.SubjectUser, userID)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(fiber.Map{"claims": claims})
}

func (h *Handler) post(c *fiber.Ctx) error {
	postID, err := api.ParamID(c, "id")
	if err != nil {
		return api.Error(c, err)
	}
	claims, err := h.service.Claims(c.UserContext(), store.SubjectPost, postID)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(fiber.Map{"claims": claims})
}
