package admin

import (
	"github.com/gofiber/fiber/v2"

	"seaseed.dev/economy/internal/api"
	"seaseed.dev/economy/internal/features/lottery"
)

// Handler: HTTP-обработчики админки.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register подключает маршруты /admin. Все они требуют заголовок X-Admin-Password.
func (h *Handler) Register(r fiber.Router) {
	g := r.Group("/admin", h.auth)
	g.Post("/grant", h.grant)
	g.Post("/accounts/:id/status", h.setStatus)
	g.Get("/lottery", h.lotterySettings)
	g.Put("/lottery", h.configureLottery)
	g.Post("/lottery/trigger", h.triggerLottery)
}

func (h *Handler) auth(c *fiber.Ctx) error {
	if err := h.service.Authenticate(c.UserContext(), api.ClientIP(c), c.Get(PasswordHeader)); err != nil {
		return api.Error(c, err)
	}
	return c.Next()
}

func (h *Handler) grant(c *fiber.Ctx) error {
	var req GrantRequest
	if err := c.BodyParser(&req); err != nil {
		return api.Error(c, api.BadRequest("некорректное тело запроса"))
	}
	t, err := h.service.Grant(c.UserContext(), req)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(fiber.Map{"transaction": t})
}

func (h *Handler) setStatus(c *fiber.Ctx) error {
	userID, err := api.ParamID(c, "id")
	if err != nil {
		return api.Error(c, err)
	}
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return api.Error(c, api.BadRequest("некорректное тело запроса"))
	}
	if err := h.service.SetStatus(c.UserContext(), userID, req.Status); err != nil {
		return api.Error(c, err)
	}
	return c.JSON(fiber.Map{"user_id": userID, "status": req.Status})
}

func (h *Handler) lotterySettings(c *fiber.Ctx) error {
	return c.JSON(h.service.LotterySettings())
}

func (h *Handler) configureLottery(c *fiber.Ctx) error {
	var req lottery.Settings
	if err := c.BodyParser(&req); err != nil {
		return api.Error(c, api.BadRequest("некорректное тело запроса"))
	}
	if err := h.service.ConfigureLottery(req); err != nil {
		return api.Error(c, err)
	}
	return c.JSON(h.service.LotterySettings())
}

func (h *Handler) triggerLottery(c *fiber.Ctx) error {
	var req TriggerRequest
	if err := c.BodyParser(&req); err != nil {
		return api.Error(c, api.BadRequest("некорректное тело запроса"))
	}
	out, err := h.service.TriggerLottery(c.UserContext(), req)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(out)
}
