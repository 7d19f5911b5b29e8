package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/jaekwang-park/todo-lists/internal/app"
	"github.com/jaekwang-park/todo-lists/internal/config"
	"github.com/jaekwang-park/todo-lists/internal/lambdaproxy"
)

// Runs the lists API behind an API Gateway HTTP API. Store connections are
// opened once per execution environment and reused across invocations.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	store, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	auth, err := app.NewAuth(ctx, cfg.Auth, logger)
	if err != nil {
		logger.Error("failed to configure auth", "error", err)
		os.Exit(1)
	}

	proxy := lambdaproxy.NewHandler(app.NewAPIHandler(store, auth, logger), logger)

	// StartWithOptions never returns; the store is closed when the execution
	// environment shuts down.
	lambda.StartWithOptions(proxy.Handle, lambda.WithEnableSIGTERM(func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}))
}
