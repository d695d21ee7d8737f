package http

import (
	"github.com/PromptWall/promptwall/pkg/infra/audit"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type clearAuditHandler struct {
	logger *logrus.Logger
	ledger *audit.Ledger
}

func NewClearAuditHandler(logger *logrus.Logger, ledger *audit.Ledger) Handler {
	return &clearAuditHandler{
		logger: logger,
		ledger: ledger,
	}
}

func (h *clearAuditHandler) Handle(c *fiber.Ctx) error {
	if err := h.ledger.Clear(c.Context()); err != nil {
		h.logger.WithError(err).Error("failed to clear audit ledger")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to clear audit ledger"})
	}

	h.logger.Warn("audit ledger cleared")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "cleared"})
}
