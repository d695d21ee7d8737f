package router

import (
	handlers "github.com/PromptWall/promptwall/pkg/handlers/http"
	"github.com/gofiber/fiber/v2"
)

type ServerRouter interface {
	BuildRoutes(app *fiber.App) error
}

// APIHandlers carries every handler the firewall API mounts.
type APIHandlers struct {
	CheckPrompt    handlers.Handler
	BatchCheck     handlers.Handler
	Stats          handlers.Handler
	RecentThreats  handlers.Handler
	ListPolicies   handlers.Handler
	AddPolicy      handlers.Handler
	DeletePolicy   handlers.Handler
	ReloadPolicies handlers.Handler
	ClearAudit     handlers.Handler
}

type apiRouter struct {
	handlers APIHandlers
}

func NewAPIRouter(h APIHandlers) ServerRouter {
	return &apiRouter{handlers: h}
}

func (r *apiRouter) BuildRoutes(app *fiber.App) error {
	app.Post("/check", r.handlers.CheckPrompt.Handle)
	app.Post("/batch", r.handlers.BatchCheck.Handle)
	app.Get("/stats", r.handlers.Stats.Handle)
	app.Get("/threats", r.handlers.RecentThreats.Handle)

	policies := app.Group("/policies")
	policies.Get("/", r.handlers.ListPolicies.Handle)
	policies.Post("/", r.handlers.AddPolicy.Handle)
	policies.Post("/reload", r.handlers.ReloadPolicies.Handle)
	policies.Delete("/:name", r.handlers.DeletePolicy.Handle)

	app.Post("/logs/clear", r.handlers.ClearAudit.Handle)
	return nil
}
