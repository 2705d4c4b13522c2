package exchange

import (
	"github.com/gofiber/fiber/v2"

	"seaseed.dev/economy/internal/api"
)

// Handler: HTTP-обработчик обмена.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r fiber.Router) {
	r.Post("/exchange", h.exchange)
}

func (h *Handler) exchange(c *fiber.Ctx) error {
	userID, err := api.MustUserID(c)
	if err != nil {
		return api.Error(c, err)
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return api.Error(c, api.BadRequest("некорректное тело запроса"))
	}
	res, err := h.service.Exchange(c.UserContext(), userID, req.From, req.To, req.Amount)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(res)
}
