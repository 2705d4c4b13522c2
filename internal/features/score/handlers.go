package score

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"seaseed.dev/economy/internal/api"
	"seaseed.dev/economy/internal/store"
)

// Accounts: чтение текущих очков пользователя.
type Accounts interface {
	Account(ctx context.Context, userID int64) (*store.Account, error)
}

// Handler: HTTP-обработчики очков.
type Handler struct {
	service  *Service
	accounts Accounts
}

func NewHandler(service *Service, accounts Accounts) *Handler {
	return &Handler{service: service, accounts: accounts}
}

func (h *Handler) Register(r fiber.Router) {
	r.Get("/score", h.myScore)
	r.Get("/score/records", h.records)
	r.Get("/score/rules", h.rules)
	r.Get("/score/rank", h.rank)
}

func (h *Handler) myScore(c *fiber.Ctx) error {
	userID, err := api.MustUserID(c)
	if err != nil {
		return api.Error(c, err)
	}
	acc, err := h.accounts.Account(c.UserContext(), userID)
	if err != nil {
		return api.Error(c, err)
	}
	breakdown, err := h.service.Breakdown(c.UserContext(), userID)
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(fiber.Map{"score": acc.Score, "breakdown": breakdown})
}

func (h *Handler) records(c *fiber.Ctx) error {
	userID, err := api.MustUserID(c)
	if err != nil {
		return api.Error(c, err)
	}
	recs, err := h.service.Records(c.UserContext(), userID, api.Limit(c, 20, 100))
	if err != nil {
		return api.Error(c, err)
	}
	return c.JSON(fiber.Map{"records": recs})
}

func (h *Handler) rules(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"rules": Rules})
}

func (h *Handler) rank(c *fiber.Ctx) error {
	entries, err := h.service.Rank(c.UserContext(), api.Limit(c, DefaultRankLimit, MaxRankLimit))
	if err != nil {
		return api.Error(c, err)
	}
	type row struct {
		Rank   int             `json:"rank"`
		UserID int64           `json:"user_id"`
		Score  decimal.Decimal `json:"score"`
	}
	out := make([]row, 0, len(entries))
	for i, e := range entries {
		out = append(out, row{Rank: i + 1, UserID: e.UserID, Score: e.Score})
	}
	return c.JSON(fiber.Map{"rank": out})
}
