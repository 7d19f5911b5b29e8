package repository

import (
	"context"

	"github.com/jaekwang-park/todo-lists/internal/model"
)

type ItemRepository interface {
	ListItems(ctx context.Context, listID string, page model.Page) ([]model.TodoItem, error)
	ListItemsByState(ctx context.Context, listID, state string, page model.Page) ([]model.TodoItem, error)
	GetItem(ctx context.Context, listID, itemID string) (model.TodoItem, error)
	// CreateItem fails with ErrParentNotFound when the owning list does not
	// exist at write time.
	CreateItem(ctx context.Context, item model.TodoItem) (model.TodoItem, error)
	UpdateItem(ctx context.Context, item model.TodoItem) (model.TodoItem, error)
	DeleteItem(ctx context.Context, listID, itemID string) error
	// DeleteItemsByList removes every item of a list and returns how many
	// were removed.
	DeleteItemsByList(ctx context.Context, listID string) (int, error)
}
