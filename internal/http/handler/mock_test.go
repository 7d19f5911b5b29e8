package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jaekwang-park/todo-lists/internal/model"
	"github.com/jaekwang-park/todo-lists/internal/repository"
	"github.com/jaekwang-park/todo-lists/internal/service"
)

// mockListRepo for handler tests
type mockListRepo struct {
	listFn   func(ctx context.Context, page model.Page) ([]model.TodoList, error)
	getFn    func(ctx context.Context, listID string) (model.TodoList, error)
	createFn func(ctx context.Context, list model.TodoList) (model.TodoList, error)
	updateFn func(ctx context.Context, list model.TodoList) (model.TodoList, error)
	deleteFn func(ctx context.Context, listID string) error
}

func (m *mockListRepo) ListLists(ctx context.Context, page model.Page) ([]model.TodoList, error) {
	return m.listFn(ctx, page)
}
func (m *mockListRepo) GetList(ctx context.Context, listID string) (model.TodoList, error) {
	return m.getFn(ctx, listID)
}
func (m *mockListRepo) CreateList(ctx context.Context, list model.TodoList) (model.TodoList, error) {
	return m.createFn(ctx, list)
}
func (m *mockListRepo) UpdateList(ctx context.Context, list model.TodoList) (model.TodoList, error) {
	return m.updateFn(ctx, list)
}
func (m *mockListRepo) DeleteList(ctx context.Context, listID string) error {
	return m.deleteFn(ctx, listID)
}

// mockItemRepo for handler tests
type mockItemRepo struct {
	listFn         func(ctx context.Context, listID string, page model.Page) ([]model.TodoItem, error)
	listByStateFn  func(ctx context.Context, listID, state string, page model.Page) ([]model.TodoItem, error)
	getFn          func(ctx context.Context, listID, itemID string) (model.TodoItem, error)
	createFn       func(ctx context.Context, item model.TodoItem) (model.TodoItem, error)
	updateFn       func(ctx context.Context, item model.TodoItem) (model.TodoItem, error)
	deleteFn       func(ctx context.Context, listID, itemID string) error
	deleteByListFn func(ctx context.Context, listID string) (int, error)
}

func (m *mockItemRepo) ListItems(ctx context.Context, listID string, page model.Page) ([]model.TodoItem, error) {
	return m.listFn(ctx, listID, page)
}
func (m *mockItemRepo) ListItemsByState(ctx context.Context, listID, state string, page model.Page) ([]model.TodoItem, error) {
	return m.listByStateFn(ctx, listID, state, page)
}
func (m *mockItemRepo) GetItem(ctx context.Context, listID, itemID string) (model.TodoItem, error) {
	return m.getFn(ctx, listID, itemID)
}
func (m *mockItemRepo) CreateItem(ctx context.Context, item model.TodoItem) (model.TodoItem, error) {
	return m.createFn(ctx, item)
}
func (m *mockItemRepo) UpdateItem(ctx context.Context, item model.TodoItem) (model.TodoItem, error) {
	return m.updateFn(ctx, item)
}
func (m *mockItemRepo) DeleteItem(ctx context.Context, listID, itemID string) error {
	return m.deleteFn(ctx, listID, itemID)
}
func (m *mockItemRepo) DeleteItemsByList(ctx context.Context, listID string) (int, error) {
	return m.deleteByListFn(ctx, listID)
}

var now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleList() model.TodoList {
	return model.TodoList{ID: "list-1", Name: "Groceries", CreatedDate: now}
}

func sampleItem() model.TodoItem {
	return model.TodoItem{ID: "item-1", ListID: "list-1", Name: "Milk", State: model.ItemStateTodo, CreatedDate: now}
}

// knownList answers GetList for "list-1" only.
func knownList() *mockListRepo {
	return &mockListRepo{
		getFn: func(ctx context.Context, listID string) (model.TodoList, error) {
			if listID != "list-1" {
				return model.TodoList{}, repository.ErrNotFound
			}
			return sampleList(), nil
		},
	}
}

func newService(lists *mockListRepo, items *mockItemRepo) *service.ListService {
	return service.NewListService(lists, items).WithClock(func() time.Time { return now })
}

// newRequest builds a request carrying chi route parameters as name/value
// pairs.
func newRequest(method, target, body string, params ...string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)

	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
