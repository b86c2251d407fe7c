package app

import (
	"htmlpdf/internal/handlers"
	u "htmlpdf/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupApp creates and configures a new Fiber app instance
func SetupApp(cfg u.Config, renderer handlers.Renderer) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:               cfg.Server.Prefork,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			u.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)

			return c.Status(code).JSON(fiber.Map{"detail": msg})
		},
	})

	RegisterMiddleware(app, cfg)
	RegisterRoutes(app, cfg, renderer)

	// Ensure all responses, including 404s, return JSON
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app
}

// RegisterRoutes mounts all route handlers to the app. The API key check
// only guards the generation endpoints; health endpoints are open.
func RegisterRoutes(app *fiber.App, cfg u.Config, renderer handlers.Renderer) {
	svc := handlers.NewPDFService(renderer)
	auth := apiKeyMiddleware(cfg)

	app.Get("/", svc.HandleRoot)
	app.Get("/health", svc.HandleHealth)
	app.Post("/generate-pdf", auth, svc.HandleGeneratePDF)
	app.Post("/generate-pdf-base64", auth, svc.HandleGeneratePDFBase64)
}
