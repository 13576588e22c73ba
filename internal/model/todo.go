package model

import "time"

// Priority is the urgency level of a todo item. Only the three values
// below are valid; CreateTodo defaults to PriorityMedium when the client
// omits the field.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Weight maps a priority onto an ordinal used when sorting: high=3,
// medium=2, low=1. Unknown values weigh 0 and therefore sort last in
// descending order.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Todo represents a single todo item.
//
// Fields:
//  ID        – sequential identifier assigned by the store, never reused.
//  Text      – trimmed task description, 1..1000 characters.
//  Completed – whether the task is done.
//  Priority  – low/medium/high, defaults to medium.
//  Category  – optional free-form grouping label.
//  OwnerID   – id of the user who created the item (0 when unowned).
//  CreatedAt – set once at creation.
//  UpdatedAt – refreshed on every mutation.
type Todo struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Priority  Priority  `json:"priority"`
	Category  string    `json:"category,omitempty"`
	OwnerID   uint64    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
