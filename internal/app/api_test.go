package app_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jaekwang-park/todo-lists/internal/app"
	"github.com/jaekwang-park/todo-lists/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, _, err := app.OpenStore(context.Background(), config.Config{StoreDriver: "mongo"}, discardLogger())
	if err == nil || !strings.Contains(err.Error(), "unknown store driver") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}

func TestNewAuth(t *testing.T) {
	jwks := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"keys":[]}`)
	}))
	defer jwks.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	tests := []struct {
		name    string
		cfg     config.AuthConfig
		wantNil bool
		wantErr bool
	}{
		{name: "disabled", cfg: config.AuthConfig{}, wantNil: true},
		{name: "enabled", cfg: config.AuthConfig{Enabled: true, JWKSURL: jwks.URL}},
		{name: "jwks unavailable", cfg: config.AuthConfig{Enabled: true, JWKSURL: broken.URL}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw, err := app.NewAuth(context.Background(), tt.cfg, discardLogger())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (mw == nil) != tt.wantNil {
				t.Errorf("expected nil middleware=%v, got %v", tt.wantNil, mw == nil)
			}
		})
	}
}

func TestNewAPIHandler_GuardsRoutes(t *testing.T) {
	jwks := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"keys":[]}`)
	}))
	defer jwks.Close()

	auth, err := app.NewAuth(context.Background(), config.AuthConfig{Enabled: true, JWKSURL: jwks.URL}, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A nil store is never reached: the request is rejected before routing.
	h := app.NewAPIHandler(nil, auth, discardLogger())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lists", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected health to stay open, got %d", w.Code)
	}
}
