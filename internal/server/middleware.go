package server

import (
	"fmt"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"seaseed.dev/economy/internal/api"
)

// Recovery перехватывает панику обработчика и отвечает 500.
func Recovery() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{
					"component":  "panic_recovery",
					"panic":      fmt.Sprintf("%v", r),
					"path":       c.Path(),
					"request_id": c.Locals(api.LocalRequestID),
					"stack":      string(debug.Stack()),
				}).Error("ПАНИКА в обработчике, восстановлено")
				err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "внутренняя ошибка"})
			}
		}()
		return c.Next()
	}
}

// RequestLogger присваивает запросу ID и логирует его завершение.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(api.LocalRequestID, id)
		c.Set(fiber.HeaderXRequestID, id)

		err := c.Next()

		fields := log.Fields{
			"request_id": id,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency":    time.Since(start).String(),
		}
		if userID, ok := api.UserID(c); ok {
			fields["user_id"] = userID
		}
		log.WithFields(fields).Debug("HTTP запрос")
		return err
	}
}

// Identity читает ID пользователя из заголовка шлюза.
// Некорректное значение игнорируется: обработчики сами ответят 401.
func Identity(header string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw := c.Get(header); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				c.Locals(api.LocalUserID, id)
			}
		}
		return c.Next()
	}
}

// Limit отклоняет запросы сверх лимита клиента. Клиент: пользователь,
// а для анонимных запросов: IP.
func Limit(rl *RateLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "ip:" + api.ClientIP(c)
		if userID, ok := api.UserID(c); ok {
			key = "user:" + strconv.FormatInt(userID, 10)
		}
		if !rl.Allow(key) {
			log.WithField("client", key).Debug("rate limited")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "слишком много запросов"})
		}
		return c.Next()
	}
}
