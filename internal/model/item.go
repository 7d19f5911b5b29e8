package model

import "time"

// Well-known item states. State is an open domain: any non-empty string is
// accepted and stored as-is, and filtering compares it case-sensitively.
const (
	ItemStateTodo       = "Todo"
	ItemStateInProgress = "InProgress"
	ItemStateDone       = "Done"
)

// DefaultItemState is applied when an item is created without a state.
const DefaultItemState = ItemStateTodo

// IsKnownItemState reports whether s is one of the well-known states.
func IsKnownItemState(s string) bool {
	return s == ItemStateTodo || s == ItemStateInProgress || s == ItemStateDone
}

type TodoItem struct {
	ID            string     `json:"id"`
	ListID        string     `json:"listId"`
	Name          string     `json:"name"`
	State         string     `json:"state"`
	Description   *string    `json:"description"`
	DueDate       *time.Time `json:"dueDate"`
	CompletedDate *time.Time `json:"completedDate"`
	CreatedDate   time.Time  `json:"createdDate"`
	UpdatedDate   *time.Time `json:"updatedDate"`
}
