// Package bootstrap builds the app for serverless handlers, which cannot
// import internal packages directly.
package bootstrap

import (
	"vibejobs-backend/internal/config"
	"vibejobs-backend/internal/interfaces/router"
	"vibejobs-backend/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// New loads config and returns the app with every route mounted.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Env, cfg.LogLevel)
	app, _, err := router.CreateApp(cfg)
	return app, err
}
