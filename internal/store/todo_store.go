package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/todoboard/internal/model"
)

// CreateTodo inserts a new todo for its owner. Generates a UUID if ID
// is empty, stamps timestamps (preserving a caller-supplied CreatedAt,
// which doubles as the todo's calendar date), derives the section from
// the completed flag, and places the todo at the end of the owner's
// list (position = max+1, or 0 for the first todo). Returns the stored
// row.
func (s *SQLiteStore) CreateTodo(ctx context.Context, todo model.Todo) (*model.Todo, error) {
	if strings.TrimSpace(todo.Title) == "" {
		return nil, fmt.Errorf("todo title must not be empty")
	}
	if todo.UserID == "" {
		return nil, fmt.Errorf("todo owner must not be empty")
	}
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = now
	}
	todo.UpdatedAt = now
	todo.Section = model.SectionFor(todo.Completed)

	var maxPos sql.NullInt64
	err := s.db.GetContext(ctx, &maxPos,
		"SELECT MAX(position) FROM todos WHERE user_id = ?", todo.UserID)
	if err != nil {
		return nil, fmt.Errorf("getting max position: %w", err)
	}
	if maxPos.Valid {
		todo.Position = int(maxPos.Int64) + 1
	} else {
		todo.Position = 0
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO todos (
			id, user_id, title, description,
			completed, section, position,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		todo.ID, todo.UserID, todo.Title, todo.Description,
		boolToInt(todo.Completed), todo.Section, todo.Position,
		todo.CreatedAt, todo.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating todo: %w", err)
	}
	return &todo, nil
}

// UpdateTodo updates an existing todo by ID. The section is forced to
// agree with the completed flag so the two can never diverge at rest.
func (s *SQLiteStore) UpdateTodo(ctx context.Context, todo model.Todo) error {
	if strings.TrimSpace(todo.Title) == "" {
		return fmt.Errorf("todo title must not be empty")
	}

	todo.UpdatedAt = time.Now().UTC()
	todo.Section = model.SectionFor(todo.Completed)

	result, err := s.db.ExecContext(ctx, `
		UPDATE todos SET
			title = ?, description = ?, completed = ?, section = ?,
			position = ?, updated_at = ?
		WHERE id = ?`,
		todo.Title, todo.Description, boolToInt(todo.Completed), todo.Section,
		todo.Position, todo.UpdatedAt,
		todo.ID,
	)
	if err != nil {
		return fmt.Errorf("updating todo %s: %w", todo.ID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("todo %s: %w", todo.ID, ErrNotFound)
	}
	return nil
}

// DeleteTodo removes a todo by ID.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting todo %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("todo %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetTodoByID retrieves a single todo by ID.
func (s *SQLiteStore) GetTodoByID(ctx context.Context, id string) (*model.Todo, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM todos WHERE id = ?", id)

	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("todo %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting todo %s: %w", id, err)
	}
	return &todo, nil
}

// GetTodos retrieves the owner's todos matching the filter, ordered by
// position ascending.
func (s *SQLiteStore) GetTodos(
	ctx context.Context,
	userID string,
	filter TodoFilter,
) ([]model.Todo, error) {
	query, args := buildTodoQuery("SELECT *", userID, filter)

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// GetTodoCount returns the count of the owner's todos matching the filter.
func (s *SQLiteStore) GetTodoCount(
	ctx context.Context,
	userID string,
	filter TodoFilter,
) (int, error) {
	query, args := buildTodoQuery("SELECT COUNT(*)", userID, filter)

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("counting todos: %w", err)
	}
	return count, nil
}

// ReorderTodos rewrites positions in a single transaction so each
// listed todo ends up at its index in ids. Each update is scoped to the
// owner, so foreign ids silently change nothing.
func (s *SQLiteStore) ReorderTodos(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx,
		"UPDATE todos SET position = ?, updated_at = ? WHERE id = ? AND user_id = ?")
	if err != nil {
		return fmt.Errorf("preparing reorder statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, i, now, id, userID); err != nil {
			return fmt.Errorf("repositioning todo %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// buildTodoQuery constructs the SQL query and args for a TodoFilter.
// Results are always owner-scoped and position-ordered.
func buildTodoQuery(selectClause, userID string, filter TodoFilter) (string, []interface{}) {
	conditions := []string{"user_id = ?"}
	args := []interface{}{userID}

	if filter.Section != nil {
		conditions = append(conditions, "section = ?")
		args = append(args, *filter.Section)
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q)
	}

	query := selectClause + " FROM todos WHERE " + strings.Join(conditions, " AND ")
	query += " ORDER BY position ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		// SQLite only accepts OFFSET after a LIMIT; -1 means unbounded.
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	return query, args
}

// scanTodo scans a todo row from sqlx.Rows or sqlx.Row.
func scanTodo(row interface{ Scan(dest ...interface{}) error }) (model.Todo, error) {
	var (
		todo      model.Todo
		completed int
	)

	err := row.Scan(
		&todo.ID, &todo.UserID, &todo.Title, &todo.Description,
		&completed, &todo.Section, &todo.Position,
		&todo.CreatedAt, &todo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, err
		}
		return model.Todo{}, fmt.Errorf("scanning todo row: %w", err)
	}

	todo.Completed = completed != 0
	return todo, nil
}
