package lottery

import "github.com/gofiber/fiber/v2"

// Handler: публичная таблица призов.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r fiber.Router) {
	r.Get("/lottery/prizes", h.prizes)
}

func (h *Handler) prizes(c *fiber.Ctx) error {
	st := h.service.Settings()
	return c.JSON(fiber.Map{
		"prizes":         h.service.Prizes(),
		"enabled":        st.Enabled,
		"trigger_chance": st.TriggerChance,
	})
}
