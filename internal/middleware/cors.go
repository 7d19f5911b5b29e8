package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSConfig lists what cross-origin callers may do. A "*" entry in
// AllowedOrigins allows any origin; an empty list allows none.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// AllowAll permits any origin and header for the methods the API serves.
var AllowAll = CORSConfig{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{
		http.MethodGet, http.MethodHead, http.MethodPost,
		http.MethodPut, http.MethodDelete, http.MethodOptions,
	},
	AllowedHeaders: []string{"*"},
}

// CORS sets cross-origin headers and answers preflight requests with 204
// without reaching the wrapped handler.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	// cors.Options treats an empty origin list as "allow all".
	if len(cfg.AllowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: cfg.AllowedMethods,
		AllowedHeaders: cfg.AllowedHeaders,
		MaxAge:         600,
	})
}
