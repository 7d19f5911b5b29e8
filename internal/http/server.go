package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jaekwang-park/todo-lists/internal/middleware"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewHandler applies the middleware chain shared by every entrypoint:
// request id -> recovery -> logging -> CORS -> router.
func NewHandler(logger *slog.Logger, cors middleware.CORSConfig, router http.Handler) http.Handler {
	return chimw.RequestID(
		middleware.Recovery(logger)(
			middleware.Logging(logger)(
				middleware.CORS(cors)(router),
			),
		),
	)
}

func NewServer(port string, logger *slog.Logger, h http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      h,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
