// Package handler serves the browser-facing /v1 routes by calling the lists
// API through an upstream client.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/jaekwang-park/todo-lists/internal/client"
	apihandler "github.com/jaekwang-park/todo-lists/internal/http/handler"
	"github.com/jaekwang-park/todo-lists/internal/model"
)

// API is the upstream lists API. *client.Client implements it.
type API interface {
	GetLists(ctx context.Context, page model.Page) ([]model.TodoList, error)
	GetList(ctx context.Context, listID string) (model.TodoList, error)
	AddList(ctx context.Context, list client.ListRequest) (model.TodoList, error)
	UpdateList(ctx context.Context, listID string, list client.ListRequest) (model.TodoList, error)
	DeleteList(ctx context.Context, listID string, cascade bool) error

	GetListItems(ctx context.Context, listID string, page model.Page) ([]model.TodoItem, error)
	AddListItem(ctx context.Context, listID string, item client.ItemRequest) (model.TodoItem, error)
	GetListItem(ctx context.Context, listID, itemID string) (model.TodoItem, error)
	UpdateListItem(ctx context.Context, listID, itemID string, item client.ItemRequest) (model.TodoItem, error)
	DeleteListItem(ctx context.Context, listID, itemID string) error
	GetListItemsByState(ctx context.Context, listID, state string, page model.Page) ([]model.TodoItem, error)
}

var _ API = (*client.Client)(nil)

// upstreamContext carries the caller's Authorization header to the API.
func upstreamContext(r *http.Request) context.Context {
	return client.WithAuthorization(r.Context(), r.Header.Get("Authorization"))
}

// handleUpstreamError maps a failed API call onto the browser response.
// Not-found, bad request and unauthorized are passed through; anything
// else becomes a 500.
func handleUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	msg := "upstream request failed"
	status := 0
	var cerr *client.Error
	if errors.As(err, &cerr) {
		msg = cerr.Message
		status = cerr.StatusCode
	}

	switch {
	case errors.Is(err, client.ErrNotFound):
		apihandler.WriteError(w, http.StatusNotFound, "NOT_FOUND", msg)
	case status == http.StatusBadRequest:
		apihandler.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", msg)
	case status == http.StatusUnauthorized:
		apihandler.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", msg)
	default:
		slog.ErrorContext(r.Context(), "upstream call failed",
			"method", r.Method,
			"path", r.URL.Path,
			"upstream_status", status,
			"error", err,
		)
		apihandler.WriteError(w, http.StatusInternalServerError, "UPSTREAM_ERROR", msg)
	}
}

func parsePageOrFail(w http.ResponseWriter, r *http.Request) (model.Page, bool) {
	page, err := apihandler.ParsePage(r.URL.Query())
	if err != nil {
		apihandler.WriteError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return model.Page{}, false
	}
	return page, true
}

// pathParam mirrors the API handlers: values routed on RawPath are
// unescaped, values routed on Path are already decoded.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}
