package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaekwang-park/todo-lists/internal/model"
)

// ItemInput carries the client-writable fields of a todo item.
// DueDate and CompletedDate are taken as given.
type ItemInput struct {
	Name          string
	State         string
	Description   *string
	DueDate       *time.Time
	CompletedDate *time.Time
}

func (in ItemInput) state(ctx context.Context) string {
	if in.State == "" {
		return model.DefaultItemState
	}
	if !model.IsKnownItemState(in.State) {
		slog.DebugContext(ctx, "item uses custom state", "state", in.State)
	}
	return in.State
}

func (s *ListService) Items(ctx context.Context, listID string, page model.Page) ([]model.TodoItem, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}
	if err := s.requireList(ctx, listID); err != nil {
		return nil, err
	}

	items, err := s.items.ListItems(ctx, listID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (s *ListService) ItemsByState(ctx context.Context, listID, state string, page model.Page) ([]model.TodoItem, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}
	if err := s.requireList(ctx, listID); err != nil {
		return nil, err
	}

	items, err := s.items.ListItemsByState(ctx, listID, state, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by state: %w", err)
	}
	return items, nil
}

func (s *ListService) GetItem(ctx context.Context, listID, itemID string) (model.TodoItem, error) {
	if err := s.requireList(ctx, listID); err != nil {
		return model.TodoItem{}, err
	}

	item, err := s.items.GetItem(ctx, listID, itemID)
	if err != nil {
		return model.TodoItem{}, notFoundOr(err, "failed to get item")
	}
	return item, nil
}

// CreateItem adds an item to an existing list. The store rejects the write
// if the list disappears between the check and the insert.
func (s *ListService) CreateItem(ctx context.Context, listID string, input ItemInput) (model.TodoItem, error) {
	if input.Name == "" {
		return model.TodoItem{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := s.requireList(ctx, listID); err != nil {
		return model.TodoItem{}, err
	}

	item := model.TodoItem{
		ListID:        listID,
		Name:          input.Name,
		State:         input.state(ctx),
		Description:   input.Description,
		DueDate:       input.DueDate,
		CompletedDate: input.CompletedDate,
		CreatedDate:   s.now(),
	}

	created, err := s.items.CreateItem(ctx, item)
	if err != nil {
		return model.TodoItem{}, notFoundOr(err, "failed to create item")
	}
	return created, nil
}

// UpdateItem replaces the writable fields of an existing item. The owning
// list is not re-checked.
func (s *ListService) UpdateItem(ctx context.Context, listID, itemID string, input ItemInput) (model.TodoItem, error) {
	if input.Name == "" {
		return model.TodoItem{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	existing, err := s.items.GetItem(ctx, listID, itemID)
	if err != nil {
		return model.TodoItem{}, notFoundOr(err, "failed to get item for update")
	}

	existing.Name = input.Name
	existing.State = input.state(ctx)
	existing.Description = input.Description
	existing.DueDate = input.DueDate
	existing.CompletedDate = input.CompletedDate
	existing.UpdatedDate = s.stamp(existing.UpdatedDate)

	updated, err := s.items.UpdateItem(ctx, existing)
	if err != nil {
		return model.TodoItem{}, notFoundOr(err, "failed to update item")
	}
	return updated, nil
}

func (s *ListService) DeleteItem(ctx context.Context, listID, itemID string) error {
	if err := s.items.DeleteItem(ctx, listID, itemID); err != nil {
		return notFoundOr(err, "failed to delete item")
	}
	return nil
}
