package main

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"linkscraper/internal/config"
	"linkscraper/internal/core/extract"
	"linkscraper/internal/core/notify"
	"linkscraper/internal/core/process"
	"linkscraper/internal/core/source"
	"linkscraper/internal/core/store"
	"linkscraper/internal/core/task"
	"linkscraper/internal/logger"
	"linkscraper/internal/platform/database"
	rds "linkscraper/internal/platform/redis"
	tasks "linkscraper/internal/platform/tasks"
	"linkscraper/internal/server"
	"linkscraper/internal/worker"
)

func main() {
	cfg := config.Load()
	log.Printf("[linkscraper] starting at %s (env=%s)\n", cfg.HTTPAddr, cfg.AppEnv)

	logr := logger.New("main")

	// Redis client
	redisSvc, err := rds.New(rds.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer redisSvc.Close()

	// Postgres record store
	db, err := database.NewPostgresConnection(database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Asynq client and server
	taskClient := tasks.New(redisSvc)
	asynqServer := asynq.NewServer(redisSvc.AsynqRedisOpt(), asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})

	// Core services
	fileRepo := store.NewFileRepository(db)
	linkRepo := store.NewLinkRepository(db)
	taskSvc := task.NewService(redisSvc)
	extractSvc := extract.NewService(extract.Options{
		Timeout:        cfg.FetchTimeout,
		UserAgent:      cfg.UserAgent,
		NotFoundMarker: cfg.NotFoundMarker,
	})
	reader := source.NewReader()
	gateway := notify.NewGateway(redisSvc, cfg.CompleteChannel)
	processSvc := process.NewService(fileRepo, linkRepo, extractSvc, reader, gateway, taskSvc, taskClient, cfg.TaskMaxRetries)

	// Worker mux
	mux := worker.NewMux()
	mux.HandleFunc(tasks.TaskTypeProcessFile, processSvc.HandleFileTask)
	mux.HandleFunc(tasks.TaskTypeProcessURL, processSvc.HandleURLTask)

	// Start worker
	go func() {
		if err := asynqServer.Start(mux.Mux()); err != nil {
			log.Printf("[worker] stopped: %v\n", err)
		}
	}()

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName: "Link Scraper API",
		JSONEncoder: func(v interface{}) ([]byte, error) {
			var buf bytes.Buffer
			encoder := json.NewEncoder(&buf)
			encoder.SetEscapeHTML(false)
			if err := encoder.Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	})

	deps := server.Dependencies{
		Files:   fileRepo,
		Process: processSvc,
		Tasks:   taskSvc,
		Redis:   redisSvc,
		DB:      db,
	}
	healthHandler := server.RegisterRoutes(app, deps)

	// Mark application as ready after all services are initialized
	go func() {
		time.Sleep(2 * time.Second)
		healthHandler.SetReady()
	}()

	// Graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.LogInfo("Shutting down...")
		asynqServer.Shutdown()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("server listen: %v", err)
	}
}
