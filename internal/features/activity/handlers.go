package activity

import (
	"github.com/gofiber/fiber/v2"

	"seaseed.dev/economy/internal/api"
)

// Handler: HTTP-обработчики активностей.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r fiber.Router) {
	r.Get("/activities", h.list)
	r.Get("/activities/my", h.mine)
	r.Get("/activities/today-points", h.todayPoints)
	r.Post("/activities/:id/join", h.join)
}

func (h *Handler) list(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"activities": h.service.Activities()})
}

func (h *Handler) mine(c *fiber.Ctx) error {
	userID, err := api.MustUserID(c)
	if err != nil {
		return api.Error(c, err)
	}
	recs, err := h.service.Records(c.UserContext(), userID, api.Limit(c, DefaultRecordsLimit, MaxRecordsLimit))
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(fiber.Map{"records": recs})
}

func (h *Handler) todayPoints(c *fiber.Ctx) error {
	userID, err := api.MustUserID(c)
	if err != nil {
		return api.Error(c, err)
	}
	total, err := h.service.TodayPoints(c.UserContext(), userID)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(fiber.Map{"day": h.service.Today(), "points": total})
}

func (h *Handler) join(c *fiber.Ctx) error {
	userID, err := api.MustUserID(c)
	if err != nil {
		return api.Error(c, err)
	}
	var req JoinRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return api.Error(c, api.BadRequest("некорректное тело запроса"))
		}
	}
	res, err := h.service.Join(c.UserContext(), userID, c.Params("id"), api.ClientIP(c), req.Content)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(res)
}
