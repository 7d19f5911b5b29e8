package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

const (
	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
)

// Config configures the lists API.
type Config struct {
	ServerPort  string
	AppEnv      string
	LogLevel    string
	StoreDriver string
	Dynamo      DynamoConfig
	DB          DBConfig
	Auth        AuthConfig
}

func (c Config) ParseLogLevel() slog.Level {
	return parseLogLevel(c.LogLevel)
}

func (c Config) Validate() error {
	if err := validateCommon(c.ServerPort, c.AppEnv); err != nil {
		return err
	}

	switch c.StoreDriver {
	case StoreDynamoDB:
		if c.Dynamo.Region == "" {
			return fmt.Errorf("DYNAMODB_REGION is required when STORE_DRIVER=%s", StoreDynamoDB)
		}
		if c.Dynamo.ListsTable == "" || c.Dynamo.ItemsTable == "" {
			return fmt.Errorf("DYNAMODB_LISTS_TABLE and DYNAMODB_ITEMS_TABLE must not be empty")
		}
		if c.Dynamo.ListsTable == c.Dynamo.ItemsTable {
			return fmt.Errorf("DYNAMODB_LISTS_TABLE and DYNAMODB_ITEMS_TABLE must differ")
		}
		if (c.Dynamo.AccessKeyID == "") != (c.Dynamo.SecretAccessKey == "") {
			return fmt.Errorf("DYNAMODB_ACCESS_KEY_ID and DYNAMODB_SECRET_ACCESS_KEY must be set together")
		}
	case StorePostgres:
		if _, err := strconv.Atoi(c.DB.Port); err != nil {
			return fmt.Errorf("invalid DB_PORT %q: %w", c.DB.Port, err)
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: must be one of %s, %s", c.StoreDriver, StoreDynamoDB, StorePostgres)
	}

	if c.Dynamo.CreateTables && c.AppEnv != "local" {
		return fmt.Errorf("DYNAMODB_CREATE_TABLES must not be enabled in %s environment", c.AppEnv)
	}

	if c.Auth.Enabled {
		if c.Auth.JWKSEndpoint() == "" {
			return fmt.Errorf("AUTH_JWKS_URL or COGNITO_USER_POOL_ID is required when AUTH_ENABLED is true")
		}
		if err := validateURL(c.Auth.JWKSEndpoint()); err != nil {
			return fmt.Errorf("invalid AUTH_JWKS_URL: %w", err)
		}
	}
	return nil
}

// DynamoConfig holds DynamoDB settings. Endpoint and static keys are only
// set for DynamoDB Local.
type DynamoConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	ListsTable      string
	ItemsTable      string
	CreateTables    bool
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

// AuthConfig enables bearer token checks on the API. Issuer and Audience
// are only verified when set. A Cognito user pool supplies defaults for
// both the key set and the issuer.
type AuthConfig struct {
	Enabled           bool
	JWKSURL           string
	Issuer            string
	Audience          string
	CognitoRegion     string
	CognitoUserPoolID string
}

func (a AuthConfig) cognitoIssuer() string {
	if a.CognitoUserPoolID == "" {
		return ""
	}
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", a.CognitoRegion, a.CognitoUserPoolID)
}

// JWKSEndpoint returns AUTH_JWKS_URL, or the user pool's key set.
func (a AuthConfig) JWKSEndpoint() string {
	if a.JWKSURL != "" {
		return a.JWKSURL
	}
	if iss := a.cognitoIssuer(); iss != "" {
		return iss + "/.well-known/jwks.json"
	}
	return ""
}

// ExpectedIssuer returns AUTH_ISSUER, or the user pool's issuer.
func (a AuthConfig) ExpectedIssuer() string {
	if a.Issuer != "" {
		return a.Issuer
	}
	return a.cognitoIssuer()
}

func Load() Config {
	return Config{
		ServerPort:  envOrDefault("SERVER_PORT", "8080"),
		AppEnv:      envOrDefault("APP_ENV", "local"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		StoreDriver: strings.ToLower(envOrDefault("STORE_DRIVER", StoreDynamoDB)),
		Dynamo: DynamoConfig{
			Region:          envOrDefault("DYNAMODB_REGION", "us-east-1"),
			Endpoint:        os.Getenv("DYNAMODB_ENDPOINT"),
			AccessKeyID:     os.Getenv("DYNAMODB_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("DYNAMODB_SECRET_ACCESS_KEY"),
			ListsTable:      envOrDefault("DYNAMODB_LISTS_TABLE", "todo-lists"),
			ItemsTable:      envOrDefault("DYNAMODB_ITEMS_TABLE", "todo-items"),
			CreateTables:    envBool("DYNAMODB_CREATE_TABLES"),
		},
		DB: DBConfig{
			Host:     envOrDefault("DB_HOST", "localhost"),
			Port:     envOrDefault("DB_PORT", "5432"),
			User:     envOrDefault("DB_USER", "todo"),
			Password: envOrDefault("DB_PASSWORD", "todo"),
			Name:     envOrDefault("DB_NAME", "todo"),
			SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			Enabled:  envBool("AUTH_ENABLED"),
			JWKSURL:  os.Getenv("AUTH_JWKS_URL"),
			Issuer:   os.Getenv("AUTH_ISSUER"),
			Audience: os.Getenv("AUTH_AUDIENCE"),

			CognitoRegion:     envOrDefault("COGNITO_REGION", "us-east-1"),
			CognitoUserPoolID: os.Getenv("COGNITO_USER_POOL_ID"),
		},
	}
}

// WebConfig configures the browser-facing web service.
type WebConfig struct {
	ServerPort string
	AppEnv     string
	LogLevel   string
	APIBaseURL string
	APITimeout string
	StaticDir  string
	// CORSOrigin admits a dev server on another origin, e.g. http://localhost:5173.
	CORSOrigin string
}

func (c WebConfig) ParseLogLevel() slog.Level {
	return parseLogLevel(c.LogLevel)
}

// Timeout returns the upstream call timeout. Call Validate first.
func (c WebConfig) Timeout() time.Duration {
	d, _ := time.ParseDuration(c.APITimeout)
	return d
}

func (c WebConfig) Validate() error {
	if err := validateCommon(c.ServerPort, c.AppEnv); err != nil {
		return err
	}
	if err := validateURL(c.APIBaseURL); err != nil {
		return fmt.Errorf("invalid API_BASE_URL: %w", err)
	}
	d, err := time.ParseDuration(c.APITimeout)
	if err != nil {
		return fmt.Errorf("invalid API_TIMEOUT %q: %w", c.APITimeout, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid API_TIMEOUT %q: must be positive", c.APITimeout)
	}
	if c.StaticDir != "" {
		info, err := os.Stat(c.StaticDir)
		if err != nil {
			return fmt.Errorf("invalid STATIC_DIR: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("invalid STATIC_DIR %q: not a directory", c.StaticDir)
		}
	}
	if c.CORSOrigin != "" && c.AppEnv != "local" {
		return fmt.Errorf("CORS_ORIGIN must not be set in %s environment", c.AppEnv)
	}
	return nil
}

func LoadWeb() WebConfig {
	return WebConfig{
		ServerPort: envOrDefault("SERVER_PORT", "8081"),
		AppEnv:     envOrDefault("APP_ENV", "local"),
		LogLevel:   envOrDefault("LOG_LEVEL", "info"),
		APIBaseURL: envOrDefault("API_BASE_URL", "http://localhost:8080"),
		APITimeout: envOrDefault("API_TIMEOUT", "30s"),
		StaticDir:  os.Getenv("STATIC_DIR"),
		CORSOrigin: os.Getenv("CORS_ORIGIN"),
	}
}

func validateCommon(port, env string) error {
	if _, err := strconv.Atoi(port); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", port, err)
	}
	if !validEnvs[env] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", env)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q: host is required", raw)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envBool(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}
