package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jaekwang-park/todo-lists/internal/http/handler"
	"github.com/jaekwang-park/todo-lists/internal/service"
)

// NewRouter wires the lists API. auth, when non-nil, guards every route
// except /health.
func NewRouter(svc *service.ListService, auth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.WriteError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handler.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	// Outside any auth group for load balancer checks.
	r.Handle("/health", handler.NewHealthHandler("todo-lists-api"))

	lists := handler.NewListHandler(svc)
	items := handler.NewItemHandler(svc)

	r.Group(func(r chi.Router) {
		if auth != nil {
			r.Use(auth)
		}

		r.Route("/lists", func(r chi.Router) {
			r.Get("/", lists.List)
			r.Post("/", lists.Create)

			r.Route("/{listID}", func(r chi.Router) {
				r.Get("/", lists.Get)
				r.Put("/", lists.Update)
				r.Delete("/", lists.Delete)

				r.Get("/items", items.List)
				r.Post("/items", items.Create)
				r.Get("/items/{itemID}", items.Get)
				r.Put("/items/{itemID}", items.Update)
				r.Delete("/items/{itemID}", items.Delete)

				r.Get("/state/{state}", items.ListByState)
			})
		})
	})

	return r
}
