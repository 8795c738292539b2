package watch_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todoboard/internal/client"
	"github.com/nhle/todoboard/internal/model"
	"github.com/nhle/todoboard/internal/todostate"
	"github.com/nhle/todoboard/internal/ui/watch"
)

func newModel(t *testing.T, todos []model.Todo) (watch.Model, *todostate.Store) {
	t.Helper()

	st := todostate.NewStore(nil)
	r := todostate.NewRefresher(st, time.Hour)
	m := watch.New(st, r)
	st.SetAll(todos)
	return m, st
}

func TestViewRendersBothSections(t *testing.T) {
	m, _ := newModel(t, []model.Todo{
		{ID: "aaaa1111", Title: "Buy milk", Section: model.SectionPending},
		{ID: "bbbb2222", Title: "Walk the dog", Completed: true, Section: model.SectionCompleted},
	})

	view := m.View()
	for _, want := range []string{"Pending", "Completed", "Buy milk", "Walk the dog", "aaaa1111"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestViewEmptySections(t *testing.T) {
	m, _ := newModel(t, nil)

	if !strings.Contains(m.View(), "nothing here") {
		t.Error("empty sections not marked")
	}
}

func TestViewShowsAuthNotice(t *testing.T) {
	api := &deniedAPI{}
	st := todostate.NewStore(api)
	m := watch.New(st, todostate.NewRefresher(st, time.Hour))
	st.SetAll([]model.Todo{{ID: "a", Title: "x", Section: model.SectionPending}})

	if strings.Contains(m.View(), "Session expired") {
		t.Fatal("auth notice shown without an auth failure")
	}

	eff := st.Delete("a")
	eff(context.Background())

	if !strings.Contains(m.View(), "Session expired") {
		t.Error("auth notice missing after a 401")
	}
}

// deniedAPI rejects every call with a 401.
type deniedAPI struct{}

func (deniedAPI) deny() error {
	return &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"}
}

func (a deniedAPI) ListTodos(context.Context) ([]model.Todo, error) { return nil, a.deny() }

func (a deniedAPI) CreateTodo(context.Context, client.CreateTodoRequest) (model.Todo, error) {
	return model.Todo{}, a.deny()
}

func (a deniedAPI) UpdateTodo(context.Context, string, client.UpdateTodoRequest) (model.Todo, error) {
	return model.Todo{}, a.deny()
}

func (a deniedAPI) DeleteTodo(context.Context, string) error { return a.deny() }

func (a deniedAPI) ReorderTodos(context.Context, []string) error { return a.deny() }

func TestChangeMessageRearmsListener(t *testing.T) {
	m, st := newModel(t, nil)

	_, cmd := m.Update(watch.TodosChangedMsg{})
	if cmd == nil {
		t.Fatal("change message did not re-arm the listener")
	}

	// The re-armed command delivers the next store transition.
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	st.SetAll([]model.Todo{{ID: "a", Title: "x", Section: model.SectionPending}})

	select {
	case msg := <-done:
		if _, ok := msg.(watch.TodosChangedMsg); !ok {
			t.Errorf("listener delivered %T", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("listener never fired after a store transition")
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c", "esc"} {
		m, _ := newModel(t, nil)

		var msg tea.KeyMsg
		switch k {
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}

		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s did not quit", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s produced %T, want tea.QuitMsg", k, cmd())
		}
	}
}
