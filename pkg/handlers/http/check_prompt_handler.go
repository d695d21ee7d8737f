package http

import (
	"errors"

	appFirewall "github.com/PromptWall/promptwall/pkg/app/firewall"
	"github.com/PromptWall/promptwall/pkg/domain/firewall"
	"github.com/PromptWall/promptwall/pkg/handlers/http/request"
	"github.com/PromptWall/promptwall/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type checkPromptHandler struct {
	logger  *logrus.Logger
	service *appFirewall.Service
}

func NewCheckPromptHandler(logger *logrus.Logger, service *appFirewall.Service) Handler {
	return &checkPromptHandler{
		logger:  logger,
		service: service,
	}
}

func (h *checkPromptHandler) Handle(c *fiber.Ctx) error {
	var req request.CheckPromptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	verdict, err := h.service.Check(c.Context(), firewall.Request{
		Prompt:    req.Prompt,
		UserID:    req.UserID,
		SessionID: req.SessionID,
	})
	if err != nil {
		if errors.Is(err, appFirewall.ErrEmptyPrompt) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("prompt check failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "check failed"})
	}

	return c.Status(fiber.StatusOK).JSON(response.NewCheckPromptResponse(verdict))
}
