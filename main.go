package main

import (
	"log/slog"
	"os"

	"inventaris_admin/app"
	"inventaris_admin/config"
	"inventaris_admin/routes"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("init app", "err", err)
		os.Exit(1)
	}
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	logger.Info("listening", "port", cfg.Port, "gateway", cfg.GatewayBaseURL)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "err", err)
	}
}
