package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nhle/todoboard/internal/model"
	"github.com/nhle/todoboard/internal/store"
	"github.com/nhle/todoboard/tests/testutil"
)

func createTodo(t *testing.T, s *store.SQLiteStore, userID, title string) *model.Todo {
	t.Helper()
	created, err := s.CreateTodo(context.Background(), model.Todo{
		UserID: userID,
		Title:  title,
	})
	if err != nil {
		t.Fatalf("creating todo %q: %v", title, err)
	}
	return created
}

func TestCreateTodoAssignsDefaults(t *testing.T) {
	s := testutil.NewTestStore(t)
	user := testutil.NewTestUser(t, s, "alice@example.com")

	created := createTodo(t, s, user.ID, "Buy milk")

	if created.ID == "" {
		t.Error("missing generated id")
	}
	if created.Position != 0 {
		t.Errorf("first todo position = %d, want 0", created.Position)
	}
	if created.Section != model.SectionPending || created.Completed {
		t.Errorf("new todo section=%q completed=%v", created.Section, created.Completed)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps not stamped")
	}
}

func TestCreateTodoPositionsAreSequentialPerUser(t *testing.T) {
	s := testutil.NewTestStore(t)
	alice := testutil.NewTestUser(t, s, "alice@example.com")
	bob := testutil.NewTestUser(t, s, "bob@example.com")

	for i, title := range []string{"one", "two", "three"} {
		created := createTodo(t, s, alice.ID, title)
		if created.Position != i {
			t.Errorf("todo %q position = %d, want %d", title, created.Position, i)
		}
	}

	// The other user's list starts over at zero.
	if created := createTodo(t, s, bob.ID, "first"); created.Position != 0 {
		t.Errorf("other user's first position = %d, want 0", created.Position)
	}
}

func TestCreateTodoRejectsBlankTitle(t *testing.T) {
	s := testutil.NewTestStore(t)
	user := testutil.NewTestUser(t, s, "alice@example.com")

	if _, err := s.CreateTodo(context.Background(), model.Todo{UserID: user.ID, Title: "  "}); err == nil {
		t.Error("blank title accepted")
	}
}

func TestCreateTodoPreservesCallerDate(t *testing.T) {
	s := testutil.NewTestStore(t)
	user := testutil.NewTestUser(t, s, "alice@example.com")

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	created, err := s.CreateTodo(context.Background(), model.Todo{
		UserID:    user.ID,
		Title:     "planned",
		CreatedAt: day,
	})
	if err != nil {
		t.Fatalf("creating todo: %v", err)
	}

	stored, err := s.GetTodoByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("loading todo: %v", err)
	}
	if !model.SameCalendarDay(stored.CreatedAt, day) {
		t.Errorf("stored date = %v, want the supplied calendar day", stored.CreatedAt)
	}
}

func TestUpdateTodoForcesSectionAgreement(t *testing.T) {
	s := testutil.NewTestStore(t)
	user := testutil.NewTestUser(t, s, "alice@example.com")
	created := createTodo(t, s, user.ID, "Buy milk")

	created.Completed = true
	created.Section = model.SectionPending // deliberately inconsistent
	if err := s.UpdateTodo(context.Background(), *created); err != nil {
		t.Fatalf("updating todo: %v", err)
	}

	stored, err := s.GetTodoByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("loading todo: %v", err)
	}
	if stored.Section != model.SectionCompleted {
		t.Errorf("section = %q, want %q", stored.Section, model.SectionCompleted)
	}
}

func TestUpdateTodoMissingIDReturnsNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)
	testutil.NewTestUser(t, s, "alice@example.com")

	err := s.UpdateTodo(context.Background(), model.Todo{ID: "nope", Title: "x"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteTodo(t *testing.T) {
	s := testutil.NewTestStore(t)
	user := testutil.NewTestUser(t, s, "alice@example.com")
	created := createTodo(t, s, user.ID, "Buy milk")

	if err := s.DeleteTodo(context.Background(), created.ID); err != nil {
		t.Fatalf("deleting todo: %v", err)
	}
	if _, err := s.GetTodoByID(context.Background(), created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("after delete, err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteTodo(context.Background(), created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("double delete, err = %v, want ErrNotFound", err)
	}
}

func TestGetTodosIsOwnerScopedAndOrdered(t *testing.T) {
	s := testutil.NewTestStore(t)
	alice := testutil.NewTestUser(t, s, "alice@example.com")
	bob := testutil.NewTestUser(t, s, "bob@example.com")

	createTodo(t, s, alice.ID, "one")
	createTodo(t, s, alice.ID, "two")
	createTodo(t, s, bob.ID, "other")

	todos, err := s.GetTodos(context.Background(), alice.ID, store.TodoFilter{})
	if err != nil {
		t.Fatalf("listing todos: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("got %d todos, want 2", len(todos))
	}
	for i, todo := range todos {
		if todo.UserID != alice.ID {
			t.Errorf("todo %q belongs to %s", todo.Title, todo.UserID)
		}
		if todo.Position != i {
			t.Errorf("todo %q position = %d, want %d", todo.Title, todo.Position, i)
		}
	}
}

func TestGetTodosSectionFilter(t *testing.T) {
	s := testutil.NewTestStore(t)
	user := testutil.NewTestUser(t, s, "alice@example.com")

	createTodo(t, s, user.ID, "open")
	done := createTodo(t, s, user.ID, "done")
	done.Completed = true
	if err := s.UpdateTodo(context.Background(), *done); err != nil {
		t.Fatalf("completing todo: %v", err)
	}

	completed := model.SectionCompleted
	todos, err := s.GetTodos(context.Background(), user.ID, store.TodoFilter{Section: &completed})
	if err != nil {
		t.Fatalf("listing todos: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "done" {
		t.Errorf("filtered todos = %v", todos)
	}

	count, err := s.GetTodoCount(context.Background(), user.ID, store.TodoFilter{Section: &completed})
	if err != nil {
		t.Fatalf("counting todos: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestGetTodosSearchFilter(t *testing.T) {
	s := testutil.NewTestStore(t)
	user := testutil.NewTestUser(t, s, "alice@example.com")

	createTodo(t, s, user.ID, "Buy milk")
	createTodo(t, s, user.ID, "Walk the dog")

	q := "milk"
	todos, err := s.GetTodos(context.Background(), user.ID, store.TodoFilter{Query: &q})
	if err != nil {
		t.Fatalf("listing todos: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "Buy milk" {
		t.Errorf("search result = %v", todos)
	}
}

func TestGetTodosLimitOffset(t *testing.T) {
	s := testutil.NewTestStore(t)
	user := testutil.NewTestUser(t, s, "alice@example.com")

	for _, title := range []string{"a", "b", "c", "d"} {
		createTodo(t, s, user.ID, title)
	}

	todos, err := s.GetTodos(context.Background(), user.ID, store.TodoFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("listing todos: %v", err)
	}
	if len(todos) != 2 || todos[0].Title != "b" || todos[1].Title != "c" {
		t.Errorf("page = %v, want [b c]", todos)
	}

	// Offset without a limit still pages.
	todos, err = s.GetTodos(context.Background(), user.ID, store.TodoFilter{Offset: 3})
	if err != nil {
		t.Fatalf("listing todos: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "d" {
		t.Errorf("offset page = %v, want [d]", todos)
	}

	// The count ignores pagination.
	count, err := s.GetTodoCount(context.Background(), user.ID, store.TodoFilter{})
	if err != nil {
		t.Fatalf("counting todos: %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
}

func TestReorderTodosRewritesPositions(t *testing.T) {
	s := testutil.NewTestStore(t)
	user := testutil.NewTestUser(t, s, "alice@example.com")

	a := createTodo(t, s, user.ID, "a")
	b := createTodo(t, s, user.ID, "b")
	c := createTodo(t, s, user.ID, "c")

	if err := s.ReorderTodos(context.Background(), user.ID, []string{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("reordering: %v", err)
	}

	todos, err := s.GetTodos(context.Background(), user.ID, store.TodoFilter{})
	if err != nil {
		t.Fatalf("listing todos: %v", err)
	}
	want := []string{"c", "a", "b"}
	for i, todo := range todos {
		if todo.Title != want[i] || todo.Position != i {
			t.Errorf("slot %d = %q (pos %d), want %q", i, todo.Title, todo.Position, want[i])
		}
	}
}

func TestReorderTodosIgnoresForeignIDs(t *testing.T) {
	s := testutil.NewTestStore(t)
	alice := testutil.NewTestUser(t, s, "alice@example.com")
	bob := testutil.NewTestUser(t, s, "bob@example.com")

	x := createTodo(t, s, bob.ID, "x")
	y := createTodo(t, s, bob.ID, "y")

	// Alice submits Bob's ids in reverse; Bob's rows must keep their
	// positions.
	if err := s.ReorderTodos(context.Background(), alice.ID, []string{y.ID, x.ID}); err != nil {
		t.Fatalf("reordering: %v", err)
	}

	for i, todo := range []*model.Todo{x, y} {
		stored, err := s.GetTodoByID(context.Background(), todo.ID)
		if err != nil {
			t.Fatalf("loading todo: %v", err)
		}
		if stored.Position != i {
			t.Errorf("foreign todo %q position changed to %d", stored.Title, stored.Position)
		}
	}
}
