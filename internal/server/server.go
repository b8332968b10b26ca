package server

import (
	"log"
	"time"

	"course-material-bot/internal/bootstrap"
	"course-material-bot/internal/config"
	"course-material-bot/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// Server exposes the operational HTTP surface: a liveness probe for the
// hosting platform and a small status endpoint.
type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
	startedAt time.Time
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		app:       app,
		cfg:       cfg,
		container: container,
		startedAt: time.Now(),
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)

	return s
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	cached, err := s.container.FileCacheRepository.Count(c.Context())
	if err != nil {
		cached = -1
	}

	return c.JSON(dto.StatusResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		CachedFiles:   cached,
		Deliveries:    s.container.UsageService.Deliveries(),
		CacheHits:     s.container.UsageService.CacheHits(),
	})
}

func (s *Server) Run() error {
	log.Printf("✅ Status server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}
