package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/xid"

	u "htmlpdf/internal/utils"
)

// apiKeyMiddleware validates the Authorization header when one is present.
// Requests without the header pass through untouched; only a header that
// fails validation is rejected. The token value itself is never logged.
func apiKeyMiddleware(cfg u.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get(fiber.HeaderAuthorization)
		if authorization == "" {
			return c.Next()
		}
		if !u.VerifyAPIKey(authorization, cfg.Auth.APIKey) {
			u.Warn("Invalid API key provided", "path", c.Path())
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid API key")
		}
		return c.Next()
	}
}

func corsMiddleware(cfg u.Config) fiber.Handler {
	origins := cfg.CORS.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	ccfg := cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,OPTIONS",
	}
	// Fiber refuses credentials together with a wildcard origin.
	if origins != "*" {
		ccfg.AllowCredentials = true
	}
	return cors.New(ccfg)
}

// RegisterMiddleware attaches global middleware to the app
func RegisterMiddleware(app *fiber.App, cfg u.Config) {
	app.Use(corsMiddleware(cfg))

	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return xid.New().String()
		},
	}))

	app.Use(func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = c.GetRespHeader("X-Request-ID")
		}
		u.Info("Incoming request", "method", c.Method(), "path", c.Path(), "request_id", requestID)
		return c.Next()
	})
}
