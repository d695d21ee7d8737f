package http

import (
	"github.com/PromptWall/promptwall/pkg/app/policy"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listPoliciesHandler struct {
	logger *logrus.Logger
	engine *policy.Engine
}

func NewListPoliciesHandler(logger *logrus.Logger, engine *policy.Engine) Handler {
	return &listPoliciesHandler{
		logger: logger,
		engine: engine,
	}
}

func (h *listPoliciesHandler) Handle(c *fiber.Ctx) error {
	rules := h.engine.Rules()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"policies": rules,
		"count":    len(rules),
	})
}
