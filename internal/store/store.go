package store

import (
	"context"
	"errors"

	"github.com/nhle/todoboard/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when registering an email that is
// already taken.
var ErrDuplicateEmail = errors.New("email already registered")

// TodoFilter controls filtering for todo queries. Results are always
// scoped to a single owner and ordered by position ascending.
type TodoFilter struct {
	Section *string    // "pending", "completed", or nil (all)
	Query   *string    // search title + description
	Limit   int
	Offset  int
}

// Store defines the persistence interface for users and todos.
type Store interface {
	// === Users ===

	CreateUser(ctx context.Context, user model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// === Todos ===

	CreateTodo(ctx context.Context, todo model.Todo) (*model.Todo, error)
	UpdateTodo(ctx context.Context, todo model.Todo) error
	DeleteTodo(ctx context.Context, id string) error
	GetTodoByID(ctx context.Context, id string) (*model.Todo, error)
	GetTodos(ctx context.Context, userID string, filter TodoFilter) ([]model.Todo, error)
	GetTodoCount(ctx context.Context, userID string, filter TodoFilter) (int, error)

	// ReorderTodos rewrites positions so each listed todo's position
	// equals its index in ids. Updates apply only to todos owned by
	// userID; foreign or unknown ids are skipped.
	ReorderTodos(ctx context.Context, userID string, ids []string) error
}
