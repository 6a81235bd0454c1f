package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"linkscraper/internal/core/process"
	"linkscraper/internal/core/store"
	"linkscraper/internal/core/task"
	"linkscraper/internal/health"
	"linkscraper/internal/platform/redis"
)

type Dependencies struct {
	Files   *store.FileRepository
	Process *process.Service
	Tasks   *task.Service
	Redis   *redis.Service
	DB      *sqlx.DB
}

func RegisterRoutes(app *fiber.App, d Dependencies) *health.HealthHandler {
	// Health endpoints
	healthHandler := health.NewHealthHandler(d.Redis, d.DB)
	app.Get("/v1/health", health.HealthLimiter(), healthHandler.HandleHealth)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Link Scraper API",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"POST /process":              "queue processing of a file of URLs (requires file_id, email)",
				"POST /process-url":          "queue reprocessing of a single URL (requires file_id, url)",
				"GET /task-status/{task_id}": "poll the state of a processing task",
			},
		})
	})

	processHandler := process.NewHandler(d.Files, d.Process, d.Tasks)
	app.Post("/process", processHandler.HandleProcess)
	app.Post("/process-url", processHandler.HandleProcessURL)
	app.Get("/task-status/:taskId", processHandler.HandleTaskStatus)

	return healthHandler
}
