package todostate_test

import (
	"testing"
	"time"

	"github.com/nhle/todoboard/internal/model"
	"github.com/nhle/todoboard/internal/todostate"
)

func newTodo(id, section string, position int) model.Todo {
	return model.Todo{
		ID:        id,
		Title:     "todo " + id,
		Completed: section == model.SectionCompleted,
		Section:   section,
		Position:  position,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// ids returns the flat order of the collection.
func ids(todos []model.Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.ID
	}
	return out
}

func sameOrder(a []string, b []model.Todo) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i].ID {
			return false
		}
	}
	return true
}

// checkDensePositions fails unless positions form an unbroken 0..n-1
// sequence over the flat collection.
func checkDensePositions(t *testing.T, todos []model.Todo) {
	t.Helper()
	for i, todo := range todos {
		if todo.Position != i {
			t.Errorf("position[%d] = %d, want %d (id %s)", i, todo.Position, i, todo.ID)
		}
	}
}

// checkSectionInvariant fails unless completed == true exactly when
// section == "completed", for every entry.
func checkSectionInvariant(t *testing.T, todos []model.Todo) {
	t.Helper()
	for _, todo := range todos {
		if todo.Completed != (todo.Section == model.SectionCompleted) {
			t.Errorf("todo %s: completed=%v but section=%q", todo.ID, todo.Completed, todo.Section)
		}
	}
}

func TestReduceInsertKeepsPositionsDense(t *testing.T) {
	var state []model.Todo

	for _, id := range []string{"a", "b", "c"} {
		state = todostate.Reduce(state, todostate.Insert{Todo: newTodo(id, model.SectionPending, 0)})
		checkDensePositions(t, state)
	}

	state = todostate.Reduce(state, todostate.Remove{ID: "b"})
	state = todostate.Reduce(state, todostate.Reorder{SourceIndex: 0, DestinationIndex: 1})
	checkDensePositions(t, state)

	if got := ids(state); got[0] != "c" || got[1] != "a" {
		t.Errorf("order = %v, want [c a]", got)
	}
}

func TestReduceInsertGoesToEndOfSection(t *testing.T) {
	state := []model.Todo{
		newTodo("a", model.SectionPending, 0),
		newTodo("b", model.SectionCompleted, 1),
	}

	state = todostate.Reduce(state, todostate.Insert{Todo: newTodo("c", model.SectionPending, 0)})

	if !sameOrder([]string{"a", "c", "b"}, state) {
		t.Errorf("order = %v, want [a c b]", ids(state))
	}
	checkDensePositions(t, state)
}

func TestReduceToggleCompleteKeepsSectionInLockstep(t *testing.T) {
	state := []model.Todo{newTodo("a", model.SectionPending, 0)}

	state = todostate.Reduce(state, todostate.ToggleComplete{ID: "a"})
	checkSectionInvariant(t, state)
	if !state[0].Completed || state[0].Section != model.SectionCompleted {
		t.Errorf("after toggle: completed=%v section=%q", state[0].Completed, state[0].Section)
	}

	state = todostate.Reduce(state, todostate.ToggleComplete{ID: "a"})
	checkSectionInvariant(t, state)
	if state[0].Completed || state[0].Section != model.SectionPending {
		t.Errorf("after second toggle: completed=%v section=%q", state[0].Completed, state[0].Section)
	}
}

func TestReduceToggleCompleteMissingIDIsNoop(t *testing.T) {
	state := []model.Todo{newTodo("a", model.SectionPending, 0)}
	next := todostate.Reduce(state, todostate.ToggleComplete{ID: "nope"})
	if next[0].Completed {
		t.Error("toggle of missing id changed an unrelated entry")
	}
}

func TestReduceMoveSectionDerivesCompleted(t *testing.T) {
	state := []model.Todo{newTodo("a", model.SectionPending, 0)}

	state = todostate.Reduce(state, todostate.MoveSection{ID: "a", Section: model.SectionCompleted})
	checkSectionInvariant(t, state)

	state = todostate.Reduce(state, todostate.MoveSection{ID: "a", Section: model.SectionPending})
	checkSectionInvariant(t, state)
}

func TestReduceReorderRoundTrip(t *testing.T) {
	original := []model.Todo{
		newTodo("a", model.SectionPending, 0),
		newTodo("b", model.SectionPending, 1),
		newTodo("c", model.SectionPending, 2),
		newTodo("d", model.SectionPending, 3),
	}

	state := todostate.Reduce(original, todostate.Reorder{SourceIndex: 1, DestinationIndex: 3})
	state = todostate.Reduce(state, todostate.Reorder{SourceIndex: 3, DestinationIndex: 1})

	if !sameOrder(ids(original), state) {
		t.Errorf("round trip order = %v, want %v", ids(state), ids(original))
	}
	checkDensePositions(t, state)
}

func TestReduceReorderSameIndexIsNoop(t *testing.T) {
	state := []model.Todo{
		newTodo("a", model.SectionPending, 0),
		newTodo("b", model.SectionPending, 1),
	}
	next := todostate.Reduce(state, todostate.Reorder{SourceIndex: 1, DestinationIndex: 1})
	if !sameOrder(ids(state), next) {
		t.Errorf("no-op reorder changed order to %v", ids(next))
	}
}

func TestReduceReorderAcrossSections(t *testing.T) {
	// A(pos0,pending), B(pos1,pending), C(pos0,completed); moving A to
	// the completed section at index 0 must leave B(pos0,pending) and
	// A(pos0,completed), C(pos1,completed).
	state := []model.Todo{
		newTodo("A", model.SectionPending, 0),
		newTodo("B", model.SectionPending, 1),
		newTodo("C", model.SectionCompleted, 0),
	}

	state = todostate.Reduce(state, todostate.Reorder{
		SourceIndex:        0,
		DestinationIndex:   0,
		SourceSection:      model.SectionPending,
		DestinationSection: model.SectionCompleted,
	})

	if !sameOrder([]string{"B", "A", "C"}, state) {
		t.Fatalf("order = %v, want [B A C]", ids(state))
	}
	checkSectionInvariant(t, state)

	b, a, c := state[0], state[1], state[2]
	if b.Section != model.SectionPending || b.Position != 0 {
		t.Errorf("B = %q pos %d, want pending pos 0", b.Section, b.Position)
	}
	if a.Section != model.SectionCompleted || a.Position != 0 {
		t.Errorf("A = %q pos %d, want completed pos 0", a.Section, a.Position)
	}
	if c.Section != model.SectionCompleted || c.Position != 1 {
		t.Errorf("C = %q pos %d, want completed pos 1", c.Section, c.Position)
	}
}

func TestReduceReorderAcrossSectionsMissingSourceIsNoop(t *testing.T) {
	state := []model.Todo{newTodo("a", model.SectionPending, 0)}
	next := todostate.Reduce(state, todostate.Reorder{
		SourceIndex:        5,
		DestinationIndex:   0,
		SourceSection:      model.SectionPending,
		DestinationSection: model.SectionCompleted,
	})
	if !sameOrder(ids(state), next) {
		t.Errorf("reorder with missing source changed state to %v", ids(next))
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	state := []model.Todo{
		newTodo("a", model.SectionPending, 0),
		newTodo("b", model.SectionPending, 1),
	}
	_ = todostate.Reduce(state, todostate.Reorder{SourceIndex: 0, DestinationIndex: 1})

	if state[0].ID != "a" || state[1].ID != "b" {
		t.Errorf("input mutated: %v", ids(state))
	}
}
