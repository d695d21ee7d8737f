package http

import (
	"github.com/PromptWall/promptwall/pkg/infra/audit"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type statsHandler struct {
	logger *logrus.Logger
	ledger *audit.Ledger
}

func NewStatsHandler(logger *logrus.Logger, ledger *audit.Ledger) Handler {
	return &statsHandler{
		logger: logger,
		ledger: ledger,
	}
}

func (h *statsHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.ledger.Stats())
}
