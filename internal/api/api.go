// Package api содержит общие помощники HTTP-обработчиков: пользователь из контекста,
// IP клиента, лимиты из query и перевод ошибок экономики в ответы.
package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"seaseed.dev/economy/internal/common"
)

// Ключи c.Locals
const (
	LocalUserID    = "user_id"
	LocalRequestID = "request_id"
)

// UserID возвращает пользователя, которого установил шлюзовый middleware.
func UserID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(LocalUserID).(int64)
	return id, ok && id > 0
}

// MustUserID: как UserID, но сразу отвечает 401.
func MustUserID(c *fiber.Ctx) (int64, error) {
	id, ok := UserID(c)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "требуется авторизация")
	}
	return id, nil
}

// ClientIP: адрес клиента. Доверие к X-Forwarded-For решает конфигурация
// fiber (см. server.FiberConfig).
func ClientIP(c *fiber.Ctx) string {
	return c.IP()
}

// Limit читает ?limit= и ограничивает его сверху.
func Limit(c *fiber.Ctx, def, max int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// ParamID читает числовой параметр пути.
func ParamID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "некорректный "+name)
	}
	return id, nil
}

// Error переводит ошибку в JSON-ответ с подходящим статусом.
func Error(c *fiber.Ctx, err error) error {
	var le *common.LimitError
	if errors.As(err, &le) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":    err.Error(),
			"ip_limit": le.Limit,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	status := Status(err)
	if status == fiber.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"path":       c.Path(),
			"request_id": c.Locals(LocalRequestID),
		}).Error("Ошибка обработки запроса")
		return c.Status(status).JSON(fiber.Map{"error": "внутренняя ошибка"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// Status возвращает HTTP-статус для ошибки экономики.
func Status(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidAmount),
		errors.Is(err, common.ErrInsufficientFunds),
		errors.Is(err, common.ErrUnsupportedExchange),
		errors.Is(err, common.ErrUnknownCurrency),
		errors.Is(err, common.ErrSelfTransfer),
		errors.Is(err, common.ErrInvalidStatus),
		errors.Is(err, common.ErrUnknownActivity),
		errors.Is(err, common.ErrInvalidChance),
		errors.Is(err, common.ErrUnknownActionKind):
		return fiber.StatusBadRequest
	case errors.Is(err, common.ErrWrongPassword):
		return fiber.StatusUnauthorized
	case errors.Is(err, common.ErrAdminDisabled),
		errors.Is(err, common.ErrLotteryDisabled),
		errors.Is(err, common.ErrAccountInactive):
		return fiber.StatusForbidden
	case errors.Is(err, common.ErrAccountNotFound),
		errors.Is(err, common.ErrPostNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, common.ErrAlreadyCompletedToday),
		errors.Is(err, common.ErrPostExists):
		return fiber.StatusConflict
	case errors.Is(err, common.ErrIPLimitExceeded),
		errors.Is(err, common.ErrTooManyAttempts):
		return fiber.StatusTooManyRequests
	}
	return fiber.StatusInternalServerError
}

// BadRequest: ответ 400 для невалидного тела запроса.
func BadRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}
