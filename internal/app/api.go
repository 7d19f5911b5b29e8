// Package app assembles the lists API from configuration. It is shared by
// the HTTP server and the Lambda entrypoints.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jaekwang-park/todo-lists/internal/config"
	todohttp "github.com/jaekwang-park/todo-lists/internal/http"
	"github.com/jaekwang-park/todo-lists/internal/middleware"
	"github.com/jaekwang-park/todo-lists/internal/repository"
	"github.com/jaekwang-park/todo-lists/internal/service"
)

// Store is a document store backing both repositories.
type Store interface {
	repository.ListRepository
	repository.ItemRepository
}

// OpenStore connects the configured store driver. The returned func
// releases its resources and is non-nil whenever err is nil.
func OpenStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (Store, func() error, error) {
	switch cfg.StoreDriver {
	case config.StoreDynamoDB:
		client, err := repository.NewDynamoClient(ctx, repository.DynamoClientOptions{
			Region:          cfg.Dynamo.Region,
			Endpoint:        cfg.Dynamo.Endpoint,
			AccessKeyID:     cfg.Dynamo.AccessKeyID,
			SecretAccessKey: cfg.Dynamo.SecretAccessKey,
		})
		if err != nil {
			return nil, nil, err
		}
		s := repository.NewDynamoStore(client, repository.DynamoTables{
			Lists: cfg.Dynamo.ListsTable,
			Items: cfg.Dynamo.ItemsTable,
		})
		if cfg.Dynamo.CreateTables {
			if err := s.EnsureTables(ctx); err != nil {
				return nil, nil, err
			}
			logger.Info("dynamodb tables ready", "lists", cfg.Dynamo.ListsTable, "items", cfg.Dynamo.ItemsTable)
		}
		logger.Info("dynamodb store configured", "region", cfg.Dynamo.Region, "endpoint", cfg.Dynamo.Endpoint)
		return s, func() error { return nil }, nil

	case config.StorePostgres:
		db, err := repository.NewDB(ctx, cfg.DB.DSN())
		if err != nil {
			return nil, nil, err
		}
		s := repository.NewPostgresStore(db)
		if err := s.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("database connected", "host", cfg.DB.Host, "name", cfg.DB.Name)
		return s, db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// NewAuth returns the bearer token middleware, or nil when auth is off.
func NewAuth(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	if !cfg.Enabled {
		logger.Warn("authentication disabled: AUTH_ENABLED is not true")
		return nil, nil
	}

	keys := middleware.NewJWKSClient(cfg.JWKSEndpoint())
	if err := keys.Prefetch(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	auth, err := middleware.NewAuth(middleware.AuthConfig{
		Keys:     keys,
		Issuer:   cfg.ExpectedIssuer(),
		Audience: cfg.Audience,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create auth middleware: %w", err)
	}
	logger.Info("authentication enabled", "jwks_url", cfg.JWKSEndpoint(), "issuer", cfg.ExpectedIssuer())
	return auth.Middleware, nil
}

// NewAPIHandler builds the full API handler chain over store.
func NewAPIHandler(store Store, auth func(http.Handler) http.Handler, logger *slog.Logger) http.Handler {
	svc := service.NewListService(store, store)
	return todohttp.NewHandler(logger, middleware.AllowAll, todohttp.NewRouter(svc, auth))
}
