package config_test

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jaekwang-park/todo-lists/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_PORT", "APP_ENV", "LOG_LEVEL", "STORE_DRIVER",
		"DYNAMODB_REGION", "DYNAMODB_ENDPOINT", "DYNAMODB_ACCESS_KEY_ID", "DYNAMODB_SECRET_ACCESS_KEY",
		"DYNAMODB_LISTS_TABLE", "DYNAMODB_ITEMS_TABLE", "DYNAMODB_CREATE_TABLES",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"AUTH_ENABLED", "AUTH_JWKS_URL", "AUTH_ISSUER", "AUTH_AUDIENCE",
		"COGNITO_REGION", "COGNITO_USER_POOL_ID",
		"API_BASE_URL", "API_TIMEOUT", "STATIC_DIR", "CORS_ORIGIN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := config.Load()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ServerPort", cfg.ServerPort, "8080"},
		{"AppEnv", cfg.AppEnv, "local"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"StoreDriver", cfg.StoreDriver, "dynamodb"},
		{"Dynamo.Region", cfg.Dynamo.Region, "us-east-1"},
		{"Dynamo.ListsTable", cfg.Dynamo.ListsTable, "todo-lists"},
		{"Dynamo.ItemsTable", cfg.Dynamo.ItemsTable, "todo-items"},
		{"DB.Host", cfg.DB.Host, "localhost"},
		{"DB.Port", cfg.DB.Port, "5432"},
		{"DB.SSLMode", cfg.DB.SSLMode, "disable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}

	if cfg.Auth.Enabled || cfg.Dynamo.CreateTables {
		t.Errorf("expected auth and table creation off by default, got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "alpha")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DYNAMODB_ENDPOINT", "http://localhost:8000")
	t.Setenv("DYNAMODB_CREATE_TABLES", "TRUE")
	t.Setenv("DB_HOST", "db.example.com")
	t.Setenv("DB_NAME", "lists")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("AUTH_JWKS_URL", "https://issuer.example.com/.well-known/jwks.json")
	t.Setenv("AUTH_ISSUER", "https://issuer.example.com")
	t.Setenv("AUTH_AUDIENCE", "todo-lists")

	cfg := config.Load()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ServerPort", cfg.ServerPort, "9090"},
		{"AppEnv", cfg.AppEnv, "alpha"},
		{"StoreDriver", cfg.StoreDriver, "postgres"},
		{"Dynamo.Endpoint", cfg.Dynamo.Endpoint, "http://localhost:8000"},
		{"DB.Host", cfg.DB.Host, "db.example.com"},
		{"DB.Name", cfg.DB.Name, "lists"},
		{"Auth.JWKSURL", cfg.Auth.JWKSURL, "https://issuer.example.com/.well-known/jwks.json"},
		{"Auth.Issuer", cfg.Auth.Issuer, "https://issuer.example.com"},
		{"Auth.Audience", cfg.Auth.Audience, "todo-lists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}

	if !cfg.Auth.Enabled || !cfg.Dynamo.CreateTables {
		t.Errorf("expected boolean flags parsed case-insensitively, got %+v", cfg)
	}
}

func TestConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantSub  string
	}{
		{
			name:     "simple password",
			password: "todo",
			wantSub:  "todo:todo@",
		},
		{
			name:     "password with special chars",
			password: "p@ss/w#rd?",
			wantSub:  "todo:p%40ss%2Fw%23rd%3F@",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DB_PASSWORD", tt.password)

			dsn := config.Load().DB.DSN()

			if !strings.Contains(dsn, tt.wantSub) {
				t.Errorf("DSN=%s, want to contain %s", dsn, tt.wantSub)
			}
			if !strings.HasPrefix(dsn, "postgres://") {
				t.Errorf("DSN=%s, want postgres:// prefix", dsn)
			}
			if !strings.Contains(dsn, "sslmode=disable") {
				t.Errorf("DSN=%s, want sslmode=disable", dsn)
			}
		})
	}
}

func TestConfig_ParseLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"empty defaults to info", "", slog.LevelInfo},
		{"invalid defaults to info", "verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("LOG_LEVEL", tt.value)

			if got := config.Load().ParseLogLevel(); got != tt.want {
				t.Errorf("LOG_LEVEL=%q: got %v, want %v", tt.value, got, tt.want)
			}
			if got := config.LoadWeb().ParseLogLevel(); got != tt.want {
				t.Errorf("web LOG_LEVEL=%q: got %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"dynamodb defaults", nil, ""},
		{"postgres", map[string]string{"STORE_DRIVER": "postgres"}, ""},
		{"invalid port", map[string]string{"SERVER_PORT": "abc"}, "invalid SERVER_PORT"},
		{"invalid env", map[string]string{"APP_ENV": "staging"}, "invalid APP_ENV"},
		{"unknown driver", map[string]string{"STORE_DRIVER": "mongo"}, "invalid STORE_DRIVER"},
		{"same tables", map[string]string{"DYNAMODB_LISTS_TABLE": "t", "DYNAMODB_ITEMS_TABLE": "t"}, "must differ"},
		{"half static credentials", map[string]string{"DYNAMODB_ACCESS_KEY_ID": "local"}, "must be set together"},
		{"invalid postgres port", map[string]string{"STORE_DRIVER": "postgres", "DB_PORT": "x"}, "invalid DB_PORT"},
		{"create tables locally", map[string]string{"DYNAMODB_CREATE_TABLES": "true"}, ""},
		{"create tables in prod", map[string]string{"APP_ENV": "prod", "DYNAMODB_CREATE_TABLES": "true"}, "DYNAMODB_CREATE_TABLES must not be enabled"},
		{"auth without jwks", map[string]string{"AUTH_ENABLED": "true"}, "AUTH_JWKS_URL or COGNITO_USER_POOL_ID is required"},
		{"auth with user pool", map[string]string{"AUTH_ENABLED": "true", "COGNITO_USER_POOL_ID": "us-east-1_abc"}, ""},
		{"auth with bad jwks", map[string]string{"AUTH_ENABLED": "true", "AUTH_JWKS_URL": "ftp://x"}, "invalid AUTH_JWKS_URL"},
		{"auth", map[string]string{"AUTH_ENABLED": "true", "AUTH_JWKS_URL": "https://x/jwks"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := config.Load().Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.wantErr)
				} else if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func TestLoadWeb_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := config.LoadWeb()

	if cfg.ServerPort != "8081" || cfg.APIBaseURL != "http://localhost:8080" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Timeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestWebConfig_Validate(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"static dir", map[string]string{"STATIC_DIR": dir}, ""},
		{"missing static dir", map[string]string{"STATIC_DIR": dir + "/nope"}, "invalid STATIC_DIR"},
		{"bad api url", map[string]string{"API_BASE_URL": "localhost:8080"}, "invalid API_BASE_URL"},
		{"bad timeout", map[string]string{"API_TIMEOUT": "soon"}, "invalid API_TIMEOUT"},
		{"zero timeout", map[string]string{"API_TIMEOUT": "0s"}, "must be positive"},
		{"cors locally", map[string]string{"CORS_ORIGIN": "http://localhost:5173"}, ""},
		{"cors in beta", map[string]string{"APP_ENV": "beta", "CORS_ORIGIN": "http://localhost:5173"}, "CORS_ORIGIN must not be set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := config.LoadWeb().Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			} else if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuthConfig_Cognito(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.AuthConfig
		wantJWKS   string
		wantIssuer string
	}{
		{
			name:       "user pool",
			cfg:        config.AuthConfig{CognitoRegion: "ap-northeast-1", CognitoUserPoolID: "ap-northeast-1_abc"},
			wantJWKS:   "https://cognito-idp.ap-northeast-1.amazonaws.com/ap-northeast-1_abc/.well-known/jwks.json",
			wantIssuer: "https://cognito-idp.ap-northeast-1.amazonaws.com/ap-northeast-1_abc",
		},
		{
			name:       "explicit values win",
			cfg:        config.AuthConfig{JWKSURL: "https://x/jwks", Issuer: "https://x", CognitoUserPoolID: "pool"},
			wantJWKS:   "https://x/jwks",
			wantIssuer: "https://x",
		},
		{
			name: "nothing configured",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.JWKSEndpoint(); got != tt.wantJWKS {
				t.Errorf("JWKSEndpoint()=%q, want %q", got, tt.wantJWKS)
			}
			if got := tt.cfg.ExpectedIssuer(); got != tt.wantIssuer {
				t.Errorf("ExpectedIssuer()=%q, want %q", got, tt.wantIssuer)
			}
		})
	}
}
