package server

import (
	"context"
	"fmt"
	"time"

	"github.com/PromptWall/promptwall/pkg/config"
	"github.com/PromptWall/promptwall/pkg/infra/prometheus"
	"github.com/PromptWall/promptwall/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"golang.org/x/sync/errgroup"
)

// Server hosts the firewall API and, when enabled, a separate metrics
// listener.
type Server struct {
	cfg    *config.Config
	logger *logrus.Logger
	app    *fiber.App
}

func NewServer(cfg *config.Config, logger *logrus.Logger, routers ...router.ServerRouter) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           60 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
		BodyLimit:             4 * 1024 * 1024,
	})

	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"service": "promptwall",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	s := &Server{
		cfg:    cfg,
		logger: logger,
		app:    app,
	}

	for _, r := range routers {
		if err := r.BuildRoutes(app); err != nil {
			logger.WithError(err).Error("failed to build routes")
		}
	}

	return s
}

// Run serves until ctx is cancelled, then shuts both listeners down.
func (s *Server) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.logger.WithField("addr", addr).Info("starting firewall API")
	group.Go(func() error {
		return s.app.Listen(addr)
	})

	var metricsApp *fiber.App
	if s.cfg.Metrics.Enabled {
		metricsApp = fiber.New(fiber.Config{DisableStartupMessage: true})
		metricsApp.Get("/metrics", func(c *fiber.Ctx) error {
			fasthttpadaptor.NewFastHTTPHandler(prometheus.Handler())(c.Context())
			return nil
		})

		metricsAddr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.MetricsPort)
		s.logger.WithField("addr", metricsAddr).Info("starting metrics endpoint")
		group.Go(func() error {
			return metricsApp.Listen(metricsAddr)
		})
	}

	group.Go(func() error {
		<-ctx.Done()
		if metricsApp != nil {
			_ = metricsApp.Shutdown()
		}
		return s.app.Shutdown()
	})

	return group.Wait()
}
