package http

import (
	appFirewall "github.com/PromptWall/promptwall/pkg/app/firewall"
	"github.com/PromptWall/promptwall/pkg/domain/firewall"
	"github.com/PromptWall/promptwall/pkg/handlers/http/request"
	"github.com/PromptWall/promptwall/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type batchCheckHandler struct {
	logger  *logrus.Logger
	service *appFirewall.Service
}

func NewBatchCheckHandler(logger *logrus.Logger, service *appFirewall.Service) Handler {
	return &batchCheckHandler{
		logger:  logger,
		service: service,
	}
}

func (h *batchCheckHandler) Handle(c *fiber.Ctx) error {
	var req request.BatchCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	out := response.BatchCheckResponse{
		Results: make([]response.BatchCheckResult, 0, len(req.Prompts)),
	}
	for _, prompt := range req.Prompts {
		verdict, err := h.service.Check(c.Context(), firewall.Request{Prompt: prompt})
		if err != nil {
			// A malformed entry fails only itself.
			out.Results = append(out.Results, response.BatchCheckResult{
				Prompt: prompt,
				Action: string(firewall.ActionBlock),
			})
			out.Blocked++
			out.Total++
			continue
		}

		out.Results = append(out.Results, response.BatchCheckResult{
			Prompt:      prompt,
			Action:      string(verdict.Action),
			Allowed:     verdict.Allowed,
			ThreatScore: verdict.Score,
			ThreatLevel: string(verdict.Severity),
		})
		out.Total++
		if verdict.Allowed {
			out.Allowed++
		} else {
			out.Blocked++
		}
	}

	return c.Status(fiber.StatusOK).JSON(out)
}
