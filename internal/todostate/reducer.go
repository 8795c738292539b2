package todostate

import (
	"github.com/nhle/todoboard/internal/model"
)

// Intent is a named, parameterized request to change the todo
// collection. The reducer applies intents as pure transitions; the
// Store pairs them with their network effects.
type Intent interface {
	isIntent()
}

// SetAll replaces the entire collection. Used for the initial load and
// for every error-recovery refetch.
type SetAll struct{ Todos []model.Todo }

// Insert adds an entity at the end of its section.
type Insert struct{ Todo model.Todo }

// Append adds an entity at the end of the collection as-is.
type Append struct{ Todo model.Todo }

// Replace swaps the entity with a matching ID for the given one.
type Replace struct{ Todo model.Todo }

// Remove drops the entity with the given ID.
type Remove struct{ ID string }

// ToggleComplete flips completed and keeps section in lockstep.
type ToggleComplete struct{ ID string }

// MoveSection sets the entity's section and derives completed from it.
type MoveSection struct {
	ID      string
	Section string
}

// Reorder moves an element. With empty sections (or equal ones) it is a
// flat splice from SourceIndex to DestinationIndex; with differing
// sections, SourceIndex addresses the element within its own section
// and DestinationIndex its slot among the destination section's
// entries.
type Reorder struct {
	SourceIndex        int
	DestinationIndex   int
	SourceSection      string
	DestinationSection string
}

func (SetAll) isIntent()         {}
func (Insert) isIntent()         {}
func (Append) isIntent()         {}
func (Replace) isIntent()        {}
func (Remove) isIntent()         {}
func (ToggleComplete) isIntent() {}
func (MoveSection) isIntent()    {}
func (Reorder) isIntent()        {}

// Reduce applies one intent to the collection and returns the new
// collection. The input slice is never mutated.
func Reduce(state []model.Todo, intent Intent) []model.Todo {
	switch in := intent.(type) {
	case SetAll:
		return append([]model.Todo(nil), in.Todos...)

	case Insert:
		return insertTodo(state, in.Todo)

	case Append:
		next := append([]model.Todo(nil), state...)
		return append(next, in.Todo)

	case Replace:
		next := append([]model.Todo(nil), state...)
		for i := range next {
			if next[i].ID == in.Todo.ID {
				next[i] = in.Todo
			}
		}
		return next

	case Remove:
		next := make([]model.Todo, 0, len(state))
		for _, t := range state {
			if t.ID != in.ID {
				next = append(next, t)
			}
		}
		return next

	case ToggleComplete:
		next := append([]model.Todo(nil), state...)
		for i := range next {
			if next[i].ID == in.ID {
				next[i].Completed = !next[i].Completed
				next[i].Section = model.SectionFor(next[i].Completed)
			}
		}
		return next

	case MoveSection:
		next := append([]model.Todo(nil), state...)
		for i := range next {
			if next[i].ID == in.ID {
				next[i].Section = in.Section
				next[i].Completed = in.Section == model.SectionCompleted
			}
		}
		return next

	case Reorder:
		if in.SourceSection != "" && in.DestinationSection != "" &&
			in.SourceSection != in.DestinationSection {
			return reorderAcrossSections(state, in)
		}
		return reorderFlat(state, in.SourceIndex, in.DestinationIndex)
	}

	return state
}

// insertTodo places the todo after the last element of its section,
// or at the end of the collection when the section is empty, then
// renumbers positions by array index.
func insertTodo(state []model.Todo, todo model.Todo) []model.Todo {
	at := len(state)
	for i := len(state) - 1; i >= 0; i-- {
		if state[i].InSection(todo.Section) {
			at = i + 1
			break
		}
	}

	next := make([]model.Todo, 0, len(state)+1)
	next = append(next, state[:at]...)
	next = append(next, todo)
	next = append(next, state[at:]...)
	return renumberByIndex(next)
}

// reorderFlat splices the element at src to dst in the flat collection
// and renumbers every position to its new array index.
func reorderFlat(state []model.Todo, src, dst int) []model.Todo {
	if src == dst || src < 0 || src >= len(state) {
		return state
	}
	if dst < 0 {
		dst = 0
	}
	if dst >= len(state) {
		dst = len(state) - 1
	}

	next := append([]model.Todo(nil), state...)
	moved := next[src]
	next = append(next[:src], next[src+1:]...)

	next = append(next, model.Todo{})
	copy(next[dst+1:], next[dst:])
	next[dst] = moved

	return renumberByIndex(next)
}

// reorderAcrossSections moves the SourceIndex-th element of the source
// section into the destination section at DestinationIndex. Entries
// outside the destination section keep their relative order around the
// destination block, and both sections are renumbered densely.
func reorderAcrossSections(state []model.Todo, in Reorder) []model.Todo {
	moved, ok := nthInSection(state, in.SourceSection, in.SourceIndex)
	if !ok {
		return state
	}

	remaining := Reduce(state, Remove{ID: moved.ID})

	moved.Section = in.DestinationSection
	moved.Completed = in.DestinationSection == model.SectionCompleted

	var destItems []model.Todo
	blockAt := -1
	for i, t := range remaining {
		if t.InSection(in.DestinationSection) {
			if blockAt < 0 {
				blockAt = i
			}
			destItems = append(destItems, t)
		}
	}

	dst := in.DestinationIndex
	if dst < 0 {
		dst = 0
	}
	if dst > len(destItems) {
		dst = len(destItems)
	}
	block := make([]model.Todo, 0, len(destItems)+1)
	block = append(block, destItems[:dst]...)
	block = append(block, moved)
	block = append(block, destItems[dst:]...)

	next := make([]model.Todo, 0, len(remaining)+1)
	placed := false
	for i, t := range remaining {
		if t.InSection(in.DestinationSection) {
			if i == blockAt {
				next = append(next, block...)
				placed = true
			}
			continue
		}
		next = append(next, t)
	}
	if !placed {
		next = append(next, block...)
	}

	return renumberPerSection(next)
}

// nthInSection returns the n-th element of the given section, walking
// the flat collection in order.
func nthInSection(state []model.Todo, section string, n int) (model.Todo, bool) {
	if n < 0 {
		return model.Todo{}, false
	}
	seen := 0
	for _, t := range state {
		if !t.InSection(section) {
			continue
		}
		if seen == n {
			return t, true
		}
		seen++
	}
	return model.Todo{}, false
}

// renumberByIndex assigns each element its array index as position,
// yielding a dense 0-based list-wide ordering.
func renumberByIndex(todos []model.Todo) []model.Todo {
	for i := range todos {
		todos[i].Position = i
	}
	return todos
}

// renumberPerSection assigns dense 0-based positions within each
// section, preserving the flat order.
func renumberPerSection(todos []model.Todo) []model.Todo {
	counts := make(map[string]int, 2)
	for i := range todos {
		section := todos[i].Section
		if section == "" {
			section = model.SectionFor(todos[i].Completed)
		}
		todos[i].Position = counts[section]
		counts[section]++
	}
	return todos
}
