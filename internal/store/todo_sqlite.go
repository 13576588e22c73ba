package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ksuzuki/todo-auth-api/internal/model"
)

const todoSchema = `
CREATE TABLE IF NOT EXISTS todos (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	text       TEXT    NOT NULL,
	completed  INTEGER NOT NULL DEFAULT 0,
	priority   TEXT    NOT NULL DEFAULT 'medium',
	category   TEXT    NOT NULL DEFAULT '',
	owner_id   INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLiteTodoStore persists todos in a SQLite table behind the same
// TodoStore contract as the in-memory store. AUTOINCREMENT keeps ids
// monotonic so a deleted id is never reassigned.
type SQLiteTodoStore struct {
	db *sql.DB
}

// NewSQLiteTodoStore bootstraps the schema and returns the store.
func NewSQLiteTodoStore(db *sql.DB) (*SQLiteTodoStore, error) {
	if _, err := db.Exec(todoSchema); err != nil {
		return nil, err
	}
	return &SQLiteTodoStore{db: db}, nil
}

func (s *SQLiteTodoStore) Create(ctx context.Context, in CreateTodoInput) (model.Todo, error) {
	if err := validateCreateTodo(&in); err != nil {
		return model.Todo{}, err
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO todos (text, completed, priority, category, owner_id, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		in.Text, in.Completed, string(in.Priority), in.Category, in.OwnerID, now, now)
	if err != nil {
		return model.Todo{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Todo{}, err
	}
	return model.Todo{
		ID:        uint64(id),
		Text:      in.Text,
		Completed: in.Completed,
		Priority:  in.Priority,
		Category:  in.Category,
		OwnerID:   in.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteTodoStore) Get(ctx context.Context, id uint64) (model.Todo, bool, error) {
	t, err := scanTodo(s.db.QueryRowContext(ctx,
		"SELECT id, text, completed, priority, category, owner_id, created_at, updated_at FROM todos WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, false, nil
	}
	if err != nil {
		return model.Todo{}, false, err
	}
	return t, true, nil
}

func (s *SQLiteTodoStore) List(ctx context.Context) ([]model.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, text, completed, priority, category, owner_id, created_at, updated_at FROM todos ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteTodoStore) Update(ctx context.Context, id uint64, in UpdateTodoInput) (model.Todo, error) {
	if err := validateUpdateTodo(&in); err != nil {
		return model.Todo{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Todo{}, err
	}
	defer tx.Rollback()

	t, err := scanTodo(tx.QueryRowContext(ctx,
		"SELECT id, text, completed, priority, category, owner_id, created_at, updated_at FROM todos WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, ErrNotFound
	}
	if err != nil {
		return model.Todo{}, err
	}

	applyTodoUpdate(&t, in, time.Now().UTC())
	if _, err := tx.ExecContext(ctx,
		"UPDATE todos SET text=?, completed=?, priority=?, category=?, updated_at=? WHERE id=?",
		t.Text, t.Completed, string(t.Priority), t.Category, t.UpdatedAt, t.ID); err != nil {
		return model.Todo{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Todo{}, err
	}
	return t, nil
}

func (s *SQLiteTodoStore) Delete(ctx context.Context, id uint64) (model.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Todo{}, err
	}
	defer tx.Rollback()

	t, err := scanTodo(tx.QueryRowContext(ctx,
		"SELECT id, text, completed, priority, category, owner_id, created_at, updated_at FROM todos WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, ErrNotFound
	}
	if err != nil {
		return model.Todo{}, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM todos WHERE id=?", id); err != nil {
		return model.Todo{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Todo{}, err
	}
	return t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (model.Todo, error) {
	var (
		t        model.Todo
		priority string
	)
	err := row.Scan(&t.ID, &t.Text, &t.Completed, &priority, &t.Category, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Todo{}, err
	}
	t.Priority = model.Priority(priority)
	return t, nil
}
