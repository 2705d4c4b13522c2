package ledger

import (
	"github.com/gofiber/fiber/v2"

	"seaseed.dev/economy/internal/api"
	"seaseed.dev/economy/internal/currency"
)

// Handler: HTTP-обработчики кошелька.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик кошелька.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register подключает маршруты кошелька и рейтингов.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/wallet", h.wallet)
	r.Get("/wallet/transactions", h.transactions)
	r.Post("/wallet/transfer", h.transfer)
	r.Post("/wallet/deposit", h.deposit)
	r.Post("/wallet/withdraw", h.withdraw)
	r.Get("/rank/currency/:tier", h.currencyRank)
	r.Get("/rank/wealth", h.wealthRank)
}

func (h *Handler) wallet(c *fiber.Ctx) error {
	userID, err := api.MustUserID(c)
	if err != nil {
		return api.Error(c, err)
	}
	acc, err := h.service.Account(c.UserContext(), userID)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(fiber.Map{"account": acc, "wealth": acc.Wealth()})
}

func (h *Handler) transactions(c *fiber.Ctx) error {
	userID, err := api.MustUserID(c)
	if err != nil {
		return api.Error(c, err)
	}
	txs, err := h.service.History(c.UserContext(), userID, c.Query("kind"), api.Limit(c, DefaultHistoryLimit, MaxHistoryLimit))
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(fiber.Map{"transactions": txs})
}

func (h *Handler) transfer(c *fiber.Ctx) error {
	userID, err := api.MustUserID(c)
	if err != nil {
		return api.Error(c, err)
	}
	var req TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return api.Error(c, api.BadRequest("некорректное тело запроса"))
	}
	txs, err := h.service.Transfer(c.UserContext(), userID, req.To, req.Currency, req.Amount)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(fiber.Map{"transactions": txs})
}

func (h *Handler) deposit(c *fiber.Ctx) error {
	userID, err := api.MustUserID(c)
	if err != nil {
		return api.Error(c, err)
	}
	var req AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return api.Error(c, api.BadRequest("некорректное тело запроса"))
	}
	t, err := h.service.Deposit(c.UserContext(), userID, req.Currency, req.Amount, req.Description)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(fiber.Map{"transaction": t})
}

func (h *Handler) withdraw(c *fiber.Ctx) error {
	userID, err := api.MustUserID(c)
	if err != nil {
		return api.Error(c, err)
	}
	var req AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return api.Error(c, api.BadRequest("некорректное тело запроса"))
	}
	t, err := h.service.Withdraw(c.UserContext(), userID, req.Currency, req.Amount, req.Description)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(fiber.Map{"transaction": t})
}

func (h *Handler) currencyRank(c *fiber.Ctx) error {
	tier, err := currency.Parse(c.Params("tier"))
	if err != nil {
		return api.Error(c, api.BadRequest(err.Error()))
	}
	entries, err := h.service.CurrencyRank(c.UserContext(), tier, api.Limit(c, DefaultRankLimit, MaxRankLimit))
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(fiber.Map{"currency": tier, "rank": entries})
}

func (h *Handler) wealthRank(c *fiber.Ctx) error {
	entries, err := h.service.WealthRank(c.UserContext(), api.Limit(c, DefaultRankLimit, MaxRankLimit))
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(fiber.Map{"rank": entries})
}
