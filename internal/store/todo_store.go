package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ksuzuki/todo-auth-api/internal/model"
)

// MaxTextLength bounds the todo text field.
const MaxTextLength = 1000

// CreateTodoInput carries the client-supplied fields for a new todo.
// Priority defaults to medium when empty; Text is trimmed before
// validation.
type CreateTodoInput struct {
	Text      string
	Completed bool
	Priority  model.Priority
	Category  string
	OwnerID   uint64
}

// UpdateTodoInput is a partial update: nil fields keep their prior value.
type UpdateTodoInput struct {
	Text      *string
	Completed *bool
	Priority  *model.Priority
	Category  *string
}

// TodoStore is the storage contract shared by the in-memory store and the
// SQLite-backed store. Get reports absence through its bool rather than an
// error; callers decide how to surface a missing record.
type TodoStore interface {
	Create(ctx context.Context, in CreateTodoInput) (model.Todo, error)
	Get(ctx context.Context, id uint64) (model.Todo, bool, error)
	List(ctx context.Context) ([]model.Todo, error)
	Update(ctx context.Context, id uint64, in UpdateTodoInput) (model.Todo, error)
	Delete(ctx context.Context, id uint64) (model.Todo, error)
}

func validateCreateTodo(in *CreateTodoInput) error {
	var msgs []string
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		msgs = append(msgs, "text is required and must not be empty")
	} else if len(in.Text) > MaxTextLength {
		msgs = append(msgs, "text must be at most 1000 characters")
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if !in.Priority.Valid() {
		msgs = append(msgs, "priority must be one of low, medium, high")
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

func validateUpdateTodo(in *UpdateTodoInput) error {
	var msgs []string
	if in.Text != nil {
		t := strings.TrimSpace(*in.Text)
		if t == "" {
			msgs = append(msgs, "text must not be empty")
		} else if len(t) > MaxTextLength {
			msgs = append(msgs, "text must be at most 1000 characters")
		}
		in.Text = &t
	}
	if in.Priority != nil && !in.Priority.Valid() {
		msgs = append(msgs, "priority must be one of low, medium, high")
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

func applyTodoUpdate(t *model.Todo, in UpdateTodoInput, now time.Time) {
	if in.Text != nil {
		t.Text = *in.Text
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.Category != nil {
		t.Category = *in.Category
	}
	t.UpdatedAt = now
}

// MemoryTodoStore keeps todos in insertion order in process memory. Ids are
// assigned from a counter that only increments, so a deleted id is never
// handed out again. All methods are safe for concurrent use.
type MemoryTodoStore struct {
	mu     sync.RWMutex
	todos  []model.Todo
	nextID uint64
}

// NewMemoryTodoStore returns an empty store whose first id will be 1.
func NewMemoryTodoStore() *MemoryTodoStore {
	return &MemoryTodoStore{nextID: 1}
}

// Create validates the input, assigns the next sequential id, stamps both
// timestamps and appends the record.
func (s *MemoryTodoStore) Create(_ context.Context, in CreateTodoInput) (model.Todo, error) {
	if err := validateCreateTodo(&in); err != nil {
		return model.Todo{}, err
	}
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	t := model.Todo{
		ID:        s.nextID,
		Text:      in.Text,
		Completed: in.Completed,
		Priority:  in.Priority,
		Category:  in.Category,
		OwnerID:   in.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextID++
	s.todos = append(s.todos, t)
	return t, nil
}

// Get returns the todo with the given id, reporting absence via the bool.
func (s *MemoryTodoStore) Get(_ context.Context, id uint64) (model.Todo, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.todos {
		if t.ID == id {
			return t, true, nil
		}
	}
	return model.Todo{}, false, nil
}

// List returns a copy of the collection in insertion order.
func (s *MemoryTodoStore) List(_ context.Context) ([]model.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Todo, len(s.todos))
	copy(out, s.todos)
	return out, nil
}

// Update merges the provided fields into the stored record and refreshes
// UpdatedAt. Validation failures leave the record unmodified.
func (s *MemoryTodoStore) Update(_ context.Context, id uint64, in UpdateTodoInput) (model.Todo, error) {
	if err := validateUpdateTodo(&in); err != nil {
		return model.Todo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			applyTodoUpdate(&s.todos[i], in, time.Now().UTC())
			return s.todos[i], nil
		}
	}
	return model.Todo{}, ErrNotFound
}

// Delete removes the record and returns it so handlers can echo what was
// deleted.
func (s *MemoryTodoStore) Delete(_ context.Context, id uint64) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			removed := s.todos[i]
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return removed, nil
		}
	}
	return model.Todo{}, ErrNotFound
}
