// Package web assembles the browser-facing service: the /v1 proxy routes
// and, optionally, the single page app's static files.
package web

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	apihandler "github.com/jaekwang-park/todo-lists/internal/http/handler"
	"github.com/jaekwang-park/todo-lists/internal/web/handler"
)

// NewRouter wires the /v1 routes onto api. When staticDir is not empty,
// requests matching no route are served from it, falling back to
// index.html so client-side routes resolve.
func NewRouter(api handler.API, staticDir string) http.Handler {
	r := chi.NewRouter()
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apihandler.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	if staticDir != "" {
		r.NotFound(spa(staticDir))
	} else {
		r.NotFound(notFound)
	}

	r.Handle("/health", apihandler.NewHealthHandler("todo-lists-web"))

	lists := handler.NewListHandler(api)
	items := handler.NewItemHandler(api)

	r.Route("/v1/lists", func(r chi.Router) {
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

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	apihandler.WriteError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
}

// spa serves files from dir. Unknown paths outside /v1 get index.html.
func spa(dir string) http.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			notFound(w, r)
			return
		}
		if r.URL.Path == "/v1" || strings.HasPrefix(r.URL.Path, "/v1/") {
			notFound(w, r)
			return
		}

		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(name); err == nil && info.Mode().IsRegular() {
			files.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, index)
	}
}
