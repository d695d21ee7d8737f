package http

import (
	"github.com/PromptWall/promptwall/pkg/app/policy"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type addPolicyHandler struct {
	logger *logrus.Logger
	engine *policy.Engine
}

func NewAddPolicyHandler(logger *logrus.Logger, engine *policy.Engine) Handler {
	return &addPolicyHandler{
		logger: logger,
		engine: engine,
	}
}

func (h *addPolicyHandler) Handle(c *fiber.Ctx) error {
	var settings map[string]any
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	rule, err := policy.RuleFromMap(settings)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.engine.Add(rule); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	h.logger.WithField("rule", rule.Name).Info("policy rule added")
	return c.Status(fiber.StatusCreated).JSON(rule)
}
