package todostate

import (
	"time"

	"github.com/nhle/todoboard/internal/model"
)

// Todos returns a snapshot copy of the full collection.
func (s *Store) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Todo(nil), s.todos...)
}

// SelectedDate returns the active date filter, or nil when unset.
func (s *Store) SelectedDate() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedDate == nil {
		return nil
	}
	d := *s.selectedDate
	return &d
}

// FilteredTodos returns the active view: entries whose createdAt falls
// on the selected calendar day (year/month/day only), or the full
// collection when no date filter is set.
func (s *Store) FilteredTodos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedDate == nil {
		return append([]model.Todo(nil), s.todos...)
	}

	var out []model.Todo
	for _, t := range s.todos {
		if model.SameCalendarDay(t.CreatedAt, *s.selectedDate) {
			out = append(out, t)
		}
	}
	return out
}

// PendingTodos returns the pending partition of the active view.
func (s *Store) PendingTodos() []model.Todo {
	return filterSection(s.FilteredTodos(), model.SectionPending)
}

// CompletedTodos returns the completed partition of the active view.
func (s *Store) CompletedTodos() []model.Todo {
	return filterSection(s.FilteredTodos(), model.SectionCompleted)
}

func filterSection(todos []model.Todo, section string) []model.Todo {
	var out []model.Todo
	for _, t := range todos {
		if t.InSection(section) {
			out = append(out, t)
		}
	}
	return out
}
