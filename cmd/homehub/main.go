package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/sharkmet/HomeHUB/internal/api/http"
	"github.com/sharkmet/HomeHUB/internal/cache"
	"github.com/sharkmet/HomeHUB/internal/classify"
	"github.com/sharkmet/HomeHUB/internal/config"
	"github.com/sharkmet/HomeHUB/internal/datalog"
	"github.com/sharkmet/HomeHUB/internal/music"
	"github.com/sharkmet/HomeHUB/internal/notes"
	"github.com/sharkmet/HomeHUB/internal/observability"
	"github.com/sharkmet/HomeHUB/internal/readings"
	"github.com/sharkmet/HomeHUB/internal/scheduler"
	"github.com/sharkmet/HomeHUB/internal/timers"
	"github.com/sharkmet/HomeHUB/internal/todo"
	"github.com/sharkmet/HomeHUB/internal/weather"
	"github.com/sharkmet/HomeHUB/internal/zones"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for the outbound weather call.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Aggregation state and its collaborators.
	store := readings.NewStore()
	directory := zones.NewDirectory(cfg.Zones)
	classifier := classify.New(cfg.Bands)

	weatherClient := weather.NewClient(httpClient, weather.Config{
		APIKey:  cfg.OpenWeatherAPIKey,
		City:    cfg.WeatherCity,
		Country: cfg.WeatherCountry,
		Units:   cfg.WeatherUnits,
	})
	weatherCache := cache.New[weather.Bundle](cfg.WeatherCacheTTL, func(err error) {
		observability.WeatherFetchFailures.Inc()
		log.Printf("weather refresh failed, serving stale data: %v", err)
	})

	sink, err := datalog.NewFileSink(cfg.DataLogPath, cfg.DataLogBuffer, func(err error) {
		observability.LogDropped.Inc()
		log.Printf("datalog: %v", err)
	})
	if err != nil {
		log.Fatalf("failed to open data log: %v", err)
	}
	defer sink.Close()

	todos, err := todo.Open(cfg.TodoDBPath)
	if err != nil {
		log.Fatalf("failed to open todo store: %v", err)
	}
	defer todos.Close()

	noteStore, err := notes.Open(cfg.NotesDBPath)
	if err != nil {
		log.Fatalf("failed to open notes store: %v", err)
	}
	defer noteStore.Close()

	timerStore, err := timers.Open(cfg.TimersDBPath)
	if err != nil {
		log.Fatalf("failed to open timers store: %v", err)
	}
	defer timerStore.Close()

	musicStore, err := music.Open(cfg.MusicDBPath)
	if err != nil {
		log.Fatalf("failed to open music store: %v", err)
	}
	defer musicStore.Close()

	// Keep the weather cache warm so dashboard requests rarely block on
	// the upstream fetch.
	if cfg.OpenWeatherAPIKey != "" {
		sched := scheduler.New(cfg.RefreshInterval, func(ctx context.Context) error {
			_, err := weatherCache.Get(ctx, weatherClient.Fetch)
			return err
		})
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	} else {
		log.Println("INFO: no OpenWeatherMap API key configured; weather endpoints will report unavailable")
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "homehub",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "homehub",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Store:           store,
		Directory:       directory,
		Policy:          cfg.UnassignedPolicy,
		Classifier:      classifier,
		Weather:         weatherCache,
		Log:             sink,
		FetchWeather:    weatherClient.Fetch,
		TrustDeviceTime: cfg.TrustDeviceTime,
	})
	httpapi.RegisterTodoRoutes(app, todos)
	httpapi.RegisterNotesRoutes(app, noteStore)
	httpapi.RegisterTimerRoutes(app, timerStore)
	httpapi.RegisterMusicRoutes(app, musicStore)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
