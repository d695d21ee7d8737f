package http

import (
	"github.com/PromptWall/promptwall/pkg/app/policy"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type deletePolicyHandler struct {
	logger *logrus.Logger
	engine *policy.Engine
}

func NewDeletePolicyHandler(logger *logrus.Logger, engine *policy.Engine) Handler {
	return &deletePolicyHandler{
		logger: logger,
		engine: engine,
	}
}

func (h *deletePolicyHandler) Handle(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "policy name is required"})
	}

	if !h.engine.Remove(name) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "policy not found"})
	}

	h.logger.WithField("rule", name).Info("policy rule removed")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "removed"})
}
