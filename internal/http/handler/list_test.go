package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jaekwang-park/todo-lists/internal/http/handler"
	"github.com/jaekwang-park/todo-lists/internal/model"
	"github.com/jaekwang-park/todo-lists/internal/repository"
)

func TestListHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		repoErr    error
		wantStatus int
	}{
		{name: "success", body: `{"name":"Groceries"}`, wantStatus: http.StatusCreated},
		{name: "client id ignored", body: `{"id":"mine","name":"Groceries","createdDate":"1999-01-01T00:00:00Z"}`, wantStatus: http.StatusCreated},
		{name: "empty name", body: `{"name":""}`, wantStatus: http.StatusBadRequest},
		{name: "invalid json", body: `{invalid`, wantStatus: http.StatusBadRequest},
		{name: "empty body", body: ``, wantStatus: http.StatusBadRequest},
		{name: "repo error", body: `{"name":"Groceries"}`, repoErr: fmt.Errorf("db error"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lists := &mockListRepo{
				createFn: func(ctx context.Context, list model.TodoList) (model.TodoList, error) {
					if tt.repoErr != nil {
						return model.TodoList{}, tt.repoErr
					}
					list.ID = "list-1"
					return list, nil
				},
			}
			h := handler.NewListHandler(newService(lists, &mockItemRepo{}))
			w := httptest.NewRecorder()

			h.Create(w, newRequest(http.MethodPost, "/lists", tt.body))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}
			if loc := w.Header().Get("Location"); loc != "/lists/list-1" {
				t.Errorf("expected Location /lists/list-1, got %q", loc)
			}

			var raw map[string]any
			if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if raw["id"] != "list-1" || raw["name"] != "Groceries" {
				t.Errorf("unexpected body: %v", raw)
			}
			if raw["createdDate"] != "2025-01-01T00:00:00Z" {
				t.Errorf("expected server createdDate, got %v", raw["createdDate"])
			}
			for _, key := range []string{"description", "updatedDate"} {
				if v, ok := raw[key]; !ok || v != nil {
					t.Errorf("expected %s=null, got %v (present=%v)", key, v, ok)
				}
			}
		})
	}
}

func TestListHandler_Get(t *testing.T) {
	tests := []struct {
		name       string
		listID     string
		wantStatus int
	}{
		{"found", "list-1", http.StatusOK},
		{"not found", "nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewListHandler(newService(knownList(), &mockItemRepo{}))
			w := httptest.NewRecorder()

			h.Get(w, newRequest(http.MethodGet, "/lists/"+tt.listID, "", "listID", tt.listID))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus == http.StatusNotFound {
				var errResp handler.ErrorResponse
				json.NewDecoder(w.Body).Decode(&errResp)
				if errResp.Error.Code != "NOT_FOUND" {
					t.Errorf("expected code=NOT_FOUND, got %s", errResp.Error.Code)
				}
			}
		})
	}
}

func TestListHandler_List(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   model.Page
		wantStatus int
	}{
		{"no paging", "", model.Page{}, http.StatusOK},
		{"window", "?skip=2&batchSize=5", model.Page{Skip: 2, BatchSize: 5}, http.StatusOK},
		{"bad skip", "?skip=abc", model.Page{}, http.StatusBadRequest},
		{"negative batch", "?batchSize=-1", model.Page{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPage model.Page
			lists := &mockListRepo{
				listFn: func(ctx context.Context, page model.Page) ([]model.TodoList, error) {
					gotPage = page
					return []model.TodoList{}, nil
				},
			}
			h := handler.NewListHandler(newService(lists, &mockItemRepo{}))
			w := httptest.NewRecorder()

			h.List(w, newRequest(http.MethodGet, "/lists"+tt.query, ""))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if gotPage != tt.wantPage {
				t.Errorf("expected page %+v, got %+v", tt.wantPage, gotPage)
			}
			if body := strings.TrimSpace(w.Body.String()); body != "[]" {
				t.Errorf("expected empty JSON array, got %s", body)
			}
		})
	}
}

func TestListHandler_Update(t *testing.T) {
	tests := []struct {
		name       string
		listID     string
		body       string
		wantStatus int
	}{
		{"success", "list-1", `{"name":"Food","description":"weekly"}`, http.StatusOK},
		{"not found", "nope", `{"name":"Food"}`, http.StatusNotFound},
		{"empty name", "list-1", `{"name":""}`, http.StatusBadRequest},
		{"invalid json", "list-1", `[`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lists := knownList()
			lists.updateFn = func(ctx context.Context, list model.TodoList) (model.TodoList, error) {
				return list, nil
			}
			h := handler.NewListHandler(newService(lists, &mockItemRepo{}))
			w := httptest.NewRecorder()

			h.Update(w, newRequest(http.MethodPut, "/lists/"+tt.listID, tt.body, "listID", tt.listID))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got model.TodoList
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if got.Name != "Food" || got.Description == nil || *got.Description != "weekly" {
				t.Errorf("unexpected list: %+v", got)
			}
			if got.UpdatedDate == nil {
				t.Error("expected updatedDate to be set")
			}
		})
	}
}

func TestListHandler_Delete(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		deleteErr   error
		wantStatus  int
		wantCascade bool
	}{
		{name: "default keeps items", wantStatus: http.StatusNoContent},
		{name: "cascade", query: "?cascade=true", wantStatus: http.StatusNoContent, wantCascade: true},
		{name: "bad cascade", query: "?cascade=maybe", wantStatus: http.StatusBadRequest},
		{name: "not found", deleteErr: repository.ErrNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cascaded := false
			lists := &mockListRepo{
				deleteFn: func(ctx context.Context, listID string) error { return tt.deleteErr },
			}
			items := &mockItemRepo{
				deleteByListFn: func(ctx context.Context, listID string) (int, error) {
					cascaded = true
					return 0, nil
				},
			}
			h := handler.NewListHandler(newService(lists, items))
			w := httptest.NewRecorder()

			h.Delete(w, newRequest(http.MethodDelete, "/lists/list-1"+tt.query, "", "listID", "list-1"))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if cascaded != tt.wantCascade {
				t.Errorf("expected cascade=%v, got %v", tt.wantCascade, cascaded)
			}
		})
	}
}
