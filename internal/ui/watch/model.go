// Package watch renders a live view of the signed-in user's todo list,
// kept current by the state store's background refresher.
package watch

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todoboard/internal/model"
	"github.com/nhle/todoboard/internal/todostate"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Background(colorBlue).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			MarginTop(1)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	doneStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(colorGray).
			Strikethrough(true)

	idStyle = lipgloss.NewStyle().
		Foreground(colorSubtle)

	emptyStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(colorGray).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			MarginTop(1)

	authStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			MarginTop(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true).
			MarginTop(1)
)

// TodosChangedMsg is sent whenever the state store transitions, so the
// view re-renders with the latest snapshot.
type TodosChangedMsg struct{}

// Model is the live todo list view.
type Model struct {
	store     *todostate.Store
	refresher *todostate.Refresher
	changeCh  chan struct{}
	width     int
}

// New creates the watch model and hooks the store's change listener.
func New(st *todostate.Store, r *todostate.Refresher) Model {
	ch := make(chan struct{}, 1)
	st.SetOnChange(func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
	return Model{store: st, refresher: r, changeCh: ch}
}

// Init starts the background refresher and begins listening for store
// transitions.
func (m Model) Init() tea.Cmd {
	m.refresher.Start()
	return m.waitForChange()
}

// waitForChange returns a command that blocks until the store notifies
// a transition. Re-armed after every TodosChangedMsg.
func (m Model) waitForChange() tea.Cmd {
	ch := m.changeCh
	return func() tea.Msg {
		<-ch
		return TodosChangedMsg{}
	}
}

// Update handles messages for the watch view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TodosChangedMsg:
		return m, m.waitForChange()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.refresher.Stop()
			return m, tea.Quit
		case "r":
			m.refresher.RefreshNow()
			return m, nil
		}
	}
	return m, nil
}

// View renders the two dashboard sections with the current snapshot.
func (m Model) View() string {
	parts := []string{headerStyle.Render("todoboard")}

	parts = append(parts, sectionStyle.Render("Pending"))
	parts = append(parts, renderItems(m.store.PendingTodos(), "[ ]", itemStyle))

	parts = append(parts, sectionStyle.Render("Completed"))
	parts = append(parts, renderItems(m.store.CompletedTodos(), "[x]", doneStyle))

	if m.store.AuthRequired() {
		parts = append(parts, authStyle.Render("Session expired. Run: todoctl login <email>"))
	} else if err := m.store.Err(); err != nil {
		parts = append(parts, errorStyle.Render("Error: "+err.Error()))
	}

	parts = append(parts, helpStyle.Render("r refresh now • q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderItems renders one section's entries, or a placeholder line when
// the section is empty.
func renderItems(todos []model.Todo, marker string, style lipgloss.Style) string {
	if len(todos) == 0 {
		return emptyStyle.Render("nothing here")
	}

	lines := make([]string, 0, len(todos))
	for _, t := range todos {
		line := fmt.Sprintf("%s %s  %s",
			marker, idStyle.Render(shortID(t.ID)), t.Title)
		lines = append(lines, style.Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
