package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaekwang-park/todo-lists/internal/client"
	"github.com/jaekwang-park/todo-lists/internal/config"
	todohttp "github.com/jaekwang-park/todo-lists/internal/http"
	"github.com/jaekwang-park/todo-lists/internal/middleware"
	"github.com/jaekwang-park/todo-lists/internal/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.LoadWeb()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"api_base_url", cfg.APIBaseURL,
		"static_dir", cfg.StaticDir,
		"log_level", cfg.LogLevel,
	)

	api := client.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.Timeout()})

	var cors middleware.CORSConfig
	if cfg.CORSOrigin != "" {
		cors = middleware.AllowAll
		cors.AllowedOrigins = []string{cfg.CORSOrigin}
	}

	h := todohttp.NewHandler(logger, cors, web.NewRouter(api, cfg.StaticDir))
	srv := todohttp.NewServer(cfg.ServerPort, logger, h)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
