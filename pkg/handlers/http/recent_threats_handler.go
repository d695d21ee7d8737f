package http

import (
	"github.com/PromptWall/promptwall/pkg/infra/audit"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const defaultThreatsLimit = 10

type recentThreatsHandler struct {
	logger *logrus.Logger
	ledger *audit.Ledger
}

func NewRecentThreatsHandler(logger *logrus.Logger, ledger *audit.Ledger) Handler {
	return &recentThreatsHandler{
		logger: logger,
		ledger: ledger,
	}
}

func (h *recentThreatsHandler) Handle(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultThreatsLimit)
	if limit <= 0 {
		limit = defaultThreatsLimit
	}

	threats, err := h.ledger.RecentThreats(c.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("failed to read recent threats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read threats"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"threats": threats,
		"count":   len(threats),
	})
}
