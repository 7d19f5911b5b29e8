package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaekwang-park/todo-lists/internal/model"
	"github.com/jaekwang-park/todo-lists/internal/repository"
)

// ListInput carries the client-writable fields of a todo list.
type ListInput struct {
	Name        string
	Description *string
}

// ListService orchestrates list and item operations over the repositories.
// It owns existence checks, defaulting and server-side timestamps.
type ListService struct {
	lists repository.ListRepository
	items repository.ItemRepository
	now   func() time.Time
}

func NewListService(lists repository.ListRepository, items repository.ItemRepository) *ListService {
	return &ListService{
		lists: lists,
		items: items,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Used by tests.
func (s *ListService) WithClock(now func() time.Time) *ListService {
	s.now = now
	return s
}

func (s *ListService) Lists(ctx context.Context, page model.Page) ([]model.TodoList, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}
	lists, err := s.lists.ListLists(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return lists, nil
}

func (s *ListService) GetList(ctx context.Context, listID string) (model.TodoList, error) {
	list, err := s.lists.GetList(ctx, listID)
	if err != nil {
		return model.TodoList{}, notFoundOr(err, "failed to get list")
	}
	return list, nil
}

func (s *ListService) CreateList(ctx context.Context, input ListInput) (model.TodoList, error) {
	if input.Name == "" {
		return model.TodoList{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	list := model.TodoList{
		Name:        input.Name,
		Description: input.Description,
		CreatedDate: s.now(),
	}

	created, err := s.lists.CreateList(ctx, list)
	if err != nil {
		return model.TodoList{}, fmt.Errorf("failed to create list: %w", err)
	}
	return created, nil
}

func (s *ListService) UpdateList(ctx context.Context, listID string, input ListInput) (model.TodoList, error) {
	if input.Name == "" {
		return model.TodoList{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	existing, err := s.lists.GetList(ctx, listID)
	if err != nil {
		return model.TodoList{}, notFoundOr(err, "failed to get list for update")
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.UpdatedDate = s.stamp(existing.UpdatedDate)

	updated, err := s.lists.UpdateList(ctx, existing)
	if err != nil {
		return model.TodoList{}, notFoundOr(err, "failed to update list")
	}
	return updated, nil
}

// DeleteList removes a list. Its items are left in place unless cascade is
// set, in which case they are removed first. A failed cascade leaves the
// list in place.
func (s *ListService) DeleteList(ctx context.Context, listID string, cascade bool) error {
	if cascade {
		n, err := s.items.DeleteItemsByList(ctx, listID)
		if err != nil {
			return fmt.Errorf("failed to delete items of list: %w", err)
		}
		slog.InfoContext(ctx, "cascade deleted list items", "list_id", listID, "count", n)
	}

	if err := s.lists.DeleteList(ctx, listID); err != nil {
		return notFoundOr(err, "failed to delete list")
	}
	return nil
}

// requireList returns ErrNotFound when the list does not exist.
func (s *ListService) requireList(ctx context.Context, listID string) error {
	if _, err := s.lists.GetList(ctx, listID); err != nil {
		return notFoundOr(err, "failed to get list")
	}
	return nil
}

// stamp returns the new updatedDate: now, unless the previous stamp is
// later, so updatedDate never moves backwards.
func (s *ListService) stamp(prev *time.Time) *time.Time {
	t := s.now()
	if prev != nil && prev.After(t) {
		t = *prev
	}
	return &t
}

func validatePage(page model.Page) error {
	if page.Skip < 0 || page.BatchSize < 0 {
		return fmt.Errorf("%w: skip and batchSize must not be negative", ErrInvalidInput)
	}
	return nil
}

// notFoundOr maps repository misses to ErrNotFound and wraps anything else.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrParentNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
