package repository

import (
	"context"

	"github.com/jaekwang-park/todo-lists/internal/model"
)

type ListRepository interface {
	ListLists(ctx context.Context, page model.Page) ([]model.TodoList, error)
	GetList(ctx context.Context, listID string) (model.TodoList, error)
	CreateList(ctx context.Context, list model.TodoList) (model.TodoList, error)
	UpdateList(ctx context.Context, list model.TodoList) (model.TodoList, error)
	DeleteList(ctx context.Context, listID string) error
}
