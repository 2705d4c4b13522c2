// Package server собирает HTTP-сервер: fiber, middleware и маршруты фич.
package server

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"seaseed.dev/economy/internal/config"
)

// Routes: фича, которая умеет подключить свои маршруты.
type Routes interface {
	Register(r fiber.Router)
}

// Server: HTTP-сервер экономики.
type Server struct {
	app     *fiber.App
	limiter *RateLimiter
	addr    string
}

// FiberConfig: настройки fiber. X-Forwarded-For учитывается только от
// адресов из TRUSTED_PROXIES, иначе IP клиента берётся из сокета.
func FiberConfig(cfg *config.Config) fiber.Config {
	return fiber.Config{
		AppName:                 "economy",
		DisableStartupMessage:   true,
		ErrorHandler:            errorHandler,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          cfg.TrustedProxies,
		EnableIPValidation:      true,
	}
}

// New создаёт сервер и подключает маршруты.
func New(cfg *config.Config, routes ...Routes) *Server {
	app := fiber.New(FiberConfig(cfg))
	limiter := NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	app.Use(RequestLogger())
	app.Use(Recovery())
	app.Use(Identity(cfg.UserHeader))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Use(Limit(limiter))
	for _, r := range routes {
		r.Register(app)
	}

	return &Server{app: app, limiter: limiter, addr: cfg.HTTPAddr}
}

// App: fiber-приложение (для тестов).
func (s *Server) App() *fiber.App {
	return s.app
}

// Start слушает адрес до вызова Shutdown.
func (s *Server) Start() error {
	log.WithField("addr", s.addr).Info("HTTP сервер запущен")
	return s.app.Listen(s.addr)
}

// Shutdown дожидается текущих запросов и останавливает лимитер.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.limiter.Close()
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler отвечает JSON и на ошибки самого fiber (404 маршрута, 405 и т.п.).
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code == fiber.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Path()).Error("Ошибка обработки запроса")
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
