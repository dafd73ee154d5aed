package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cryptopulse/internal/adapter/dash_http"
	"cryptopulse/internal/di"
	"cryptopulse/internal/infra/config"
	"cryptopulse/internal/infra/logger"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New()
	slog.SetDefault(log)

	// 3. Wire Components
	components, err := di.NewApplicationComponents(cfg, log)
	if err != nil {
		log.Error("failed to wire application", "error", err)
		os.Exit(1)
	}

	// 4. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	// 5. Register Handlers
	handler := dash_http.NewHandler(
		components.Aggregator,
		components.Sessions,
		components.Chat,
		components.Enumerator,
		components.MaxDays,
		log,
	)

	e.GET("/v1/dates", handler.ListDates)
	e.GET("/v1/videos", handler.ListVideos)
	e.GET("/v1/channels", handler.ListChannels)
	e.GET("/v1/sentiment/trend", handler.SentimentTrend)
	e.POST("/v1/sessions", handler.CreateSession)
	e.GET("/v1/sessions/:id", handler.GetSession)
	e.POST("/v1/sessions/:id/advance", handler.AdvanceSession)
	e.POST("/v1/chat", handler.Chat, components.ChatLimiter.Middleware())
	e.POST("/internal/cache/clear", handler.ClearCache)

	// 6. Health and Metrics
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
		components.Metrics.Registry, promhttp.HandlerOpts{},
	)))

	// 7. Start Server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info("Starting server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// 8. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
