package todostate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nhle/todoboard/internal/client"
	"github.com/nhle/todoboard/internal/model"
)

// API is the slice of the HTTP client the store's effects need.
// *client.Client satisfies it; tests substitute a fake.
type API interface {
	ListTodos(ctx context.Context) ([]model.Todo, error)
	CreateTodo(ctx context.Context, req client.CreateTodoRequest) (model.Todo, error)
	UpdateTodo(ctx context.Context, id string, req client.UpdateTodoRequest) (model.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
	ReorderTodos(ctx context.Context, ids []string) error
}

// Effect is the deferred network half of an optimistic intent. Running
// it reconciles the store with the server's response: a no-op on
// success, a rollback or refetch on failure. A nil Effect means the
// intent had nothing to do.
type Effect func(ctx context.Context)

// Store holds the locally-cached ordered todo collection for the
// signed-in user. Intents apply optimistically and immediately; their
// effects reconcile in a second transition once the server responds.
// The collection is the session's authoritative view but never the
// system of record.
type Store struct {
	mu           sync.Mutex
	api          API
	todos        []model.Todo
	selectedDate *time.Time
	lastErr      error
	authRequired bool
	onChange     func()
}

// NewStore creates an empty store backed by the given API.
func NewStore(api API) *Store {
	return &Store{api: api}
}

// SetOnChange registers a listener invoked after every state
// transition, including effect reconciliations.
func (s *Store) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Go runs an effect on its own goroutine. The UI never blocks on the
// network; reconciliation re-enters the store when the call completes.
func (s *Store) Go(e Effect) {
	if e == nil {
		return
	}
	go e(context.Background())
}

// apply runs one reducer transition under the lock and notifies the
// change listener.
func (s *Store) apply(intent Intent) {
	s.mu.Lock()
	s.todos = Reduce(s.todos, intent)
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// SetAll replaces the entire collection.
func (s *Store) SetAll(todos []model.Todo) {
	s.apply(SetAll{Todos: todos})
}

// SetDateFilter stores the selected calendar date used to derive the
// filtered view. Pass nil to clear the filter. The collection itself is
// untouched.
func (s *Store) SetDateFilter(date *time.Time) {
	s.mu.Lock()
	if date == nil {
		s.selectedDate = nil
	} else {
		d := *date
		s.selectedDate = &d
	}
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Add inserts a placeholder todo at the end of the pending section and
// returns the effect that creates it server-side. An empty title is
// rejected locally; no placeholder is inserted and no request issued.
//
// On success the placeholder is removed and the server entity appended
// (append, not index-matching, so the confirmed entry can land after
// later optimistic inserts). On failure the placeholder is removed; a
// 401 raises the auth-required flag instead of the generic error.
func (s *Store) Add(title, description string, date *time.Time) (Effect, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("todo title must not be empty")
	}

	now := time.Now()
	placeholder := model.Todo{
		ID:          fmt.Sprintf("temp-%d", now.UnixNano()),
		Title:       title,
		Description: description,
		Completed:   false,
		Section:     model.SectionPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if date != nil {
		placeholder.CreatedAt = *date
	}
	s.apply(Insert{Todo: placeholder})

	req := client.CreateTodoRequest{Title: title, Description: description, Date: date}
	return func(ctx context.Context) {
		created, err := s.api.CreateTodo(ctx, req)
		if err != nil {
			s.apply(Remove{ID: placeholder.ID})
			s.fail(err)
			return
		}
		s.apply(Remove{ID: placeholder.ID})
		s.apply(Append{Todo: created})
	}, nil
}

// Complete flips the completed flag (and section) of the matching
// entry. No-op if the id is absent. On a failed update the flip is
// rolled back to the exact prior completed/section pair.
func (s *Store) Complete(id string) Effect {
	prior, ok := s.find(id)
	if !ok {
		return nil
	}
	s.apply(ToggleComplete{ID: id})

	completed := !prior.Completed
	return func(ctx context.Context) {
		_, err := s.api.UpdateTodo(ctx, id, client.UpdateTodoRequest{Completed: &completed})
		if err != nil {
			s.restoreCompletion(id, prior.Completed, prior.Section)
			s.fail(err)
		}
	}
}

// MoveSection places the entry in the given section, deriving the
// completed flag. Rollback on failure is exact, like Complete.
func (s *Store) MoveSection(id, section string) Effect {
	prior, ok := s.find(id)
	if !ok {
		return nil
	}
	s.apply(MoveSection{ID: id, Section: section})

	completed := section == model.SectionCompleted
	return func(ctx context.Context) {
		_, err := s.api.UpdateTodo(ctx, id, client.UpdateTodoRequest{Completed: &completed})
		if err != nil {
			s.restoreCompletion(id, prior.Completed, prior.Section)
			s.fail(err)
		}
	}
}

// Edit replaces title and description of the matching entry, leaving
// completion, section, and position untouched. On failure the prior
// fields are restored.
func (s *Store) Edit(id, title, description string) Effect {
	prior, ok := s.find(id)
	if !ok {
		return nil
	}

	updated := prior
	updated.Title = title
	updated.Description = description
	s.apply(Replace{Todo: updated})

	return func(ctx context.Context) {
		_, err := s.api.UpdateTodo(ctx, id, client.UpdateTodoRequest{
			Title:       &title,
			Description: &description,
		})
		if err != nil {
			s.apply(Replace{Todo: prior})
			s.fail(err)
		}
	}
}

// Delete removes the entry. On failure the full authoritative list is
// refetched and replaces local state rather than re-inserting the
// deleted item, which would risk duplicate or ordering drift.
func (s *Store) Delete(id string) Effect {
	if _, ok := s.find(id); !ok {
		return nil
	}
	s.apply(Remove{ID: id})

	return func(ctx context.Context) {
		if err := s.api.DeleteTodo(ctx, id); err != nil {
			s.fail(err)
			s.refetch(ctx)
		}
	}
}

// Reorder applies a drag-and-drop move. Same-section moves submit the
// full new ordering as a bulk reposition; cross-section moves submit a
// section change for the moved entry. Either way a failure triggers a
// full refetch-and-replace, because the transformation is not trivially
// invertible.
func (s *Store) Reorder(srcIndex, dstIndex int, srcSection, dstSection string) Effect {
	crossSection := srcSection != "" && dstSection != "" && srcSection != dstSection
	if !crossSection && srcIndex == dstIndex {
		return nil
	}

	var movedID string
	if crossSection {
		s.mu.Lock()
		moved, ok := nthInSection(s.todos, srcSection, srcIndex)
		s.mu.Unlock()
		if !ok {
			return nil
		}
		movedID = moved.ID
	}

	s.apply(Reorder{
		SourceIndex:        srcIndex,
		DestinationIndex:   dstIndex,
		SourceSection:      srcSection,
		DestinationSection: dstSection,
	})

	if crossSection {
		completed := dstSection == model.SectionCompleted
		return func(ctx context.Context) {
			_, err := s.api.UpdateTodo(ctx, movedID, client.UpdateTodoRequest{Completed: &completed})
			if err != nil {
				s.fail(err)
				s.refetch(ctx)
			}
		}
	}

	ids := make([]string, 0, len(s.Todos()))
	for _, t := range s.Todos() {
		ids = append(ids, t.ID)
	}
	return func(ctx context.Context) {
		if err := s.api.ReorderTodos(ctx, ids); err != nil {
			s.fail(err)
			s.refetch(ctx)
		}
	}
}

// Refresh fetches the authoritative list and replaces local state.
func (s *Store) Refresh(ctx context.Context) error {
	todos, err := s.api.ListTodos(ctx)
	if err != nil {
		s.fail(err)
		return err
	}
	s.apply(SetAll{Todos: todos})
	return nil
}

// Err returns the last intent failure, if any.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// AuthRequired reports whether a request failed with 401, meaning the
// session is gone and the user must sign in again.
func (s *Store) AuthRequired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authRequired
}

// ClearErr resets the error and auth-required state.
func (s *Store) ClearErr() {
	s.mu.Lock()
	s.lastErr = nil
	s.authRequired = false
	s.mu.Unlock()
}

// find returns a copy of the entry with the given id.
func (s *Store) find(id string) (model.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.todos {
		if t.ID == id {
			return t, true
		}
	}
	return model.Todo{}, false
}

// restoreCompletion puts an entry's completed/section pair back to the
// exact values captured before an optimistic flip.
func (s *Store) restoreCompletion(id string, completed bool, section string) {
	s.mu.Lock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos[i].Completed = completed
			s.todos[i].Section = section
		}
	}
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// fail records an intent failure, distinguishing 401 from everything
// else.
func (s *Store) fail(err error) {
	s.mu.Lock()
	if client.IsAuthError(err) {
		s.authRequired = true
	} else {
		s.lastErr = err
	}
	s.mu.Unlock()
}

// refetch replaces local state with the server's list, swallowing a
// second failure: the original error is already surfaced.
func (s *Store) refetch(ctx context.Context) {
	todos, err := s.api.ListTodos(ctx)
	if err != nil {
		return
	}
	s.apply(SetAll{Todos: todos})
}
