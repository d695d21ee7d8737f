package http

import (
	"github.com/PromptWall/promptwall/pkg/app/policy"
	"github.com/PromptWall/promptwall/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type reloadPoliciesHandler struct {
	logger *logrus.Logger
	engine *policy.Engine
	file   string
}

func NewReloadPoliciesHandler(logger *logrus.Logger, engine *policy.Engine, file string) Handler {
	return &reloadPoliciesHandler{
		logger: logger,
		engine: engine,
		file:   file,
	}
}

// Handle re-reads the policy file. A failed load keeps the currently
// active rule set untouched.
func (h *reloadPoliciesHandler) Handle(c *fiber.Ctx) error {
	if h.file == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no policy file configured"})
	}

	rules, err := policy.LoadFile(h.file)
	if err == nil {
		err = h.engine.Load(rules)
	}
	if err != nil {
		prometheus.PolicyLoadFailures.Inc()
		h.logger.WithError(err).WithField("file", h.file).Warn("policy reload rejected, previous set retained")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "reloaded",
		"count":  len(rules),
	})
}
