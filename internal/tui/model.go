// Package tui is an interactive terminal view over a store.Store.
//
// The model never mutates todos itself. Key presses start store operations
// as commands; the store's containers publish the results back to the
// program as messages.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/service"
	"todo/internal/store"
)

// Messages published from the store's containers.
type (
	todosMsg   []service.Todo
	loadingMsg bool
	errorMsg   string

	// opDoneMsg marks the end of a store operation.
	opDoneMsg struct{}
)

// Model is the Bubble Tea model.
type Model struct {
	ctx  context.Context
	st   *store.Store
	keys keyMap

	todos   []service.Todo
	loading bool
	errText string
	cursor  int

	adding bool
	input  textinput.Model
	addErr string
}

// NewModel creates a model over st. ctx bounds every API request.
func NewModel(ctx context.Context, st *store.Store) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New todo title..."
	ti.CharLimit = 255

	return Model{
		ctx:     ctx,
		st:      st,
		keys:    defaultKeyMap(),
		todos:   st.Todos.Get(),
		loading: st.Loading.Get(),
		errText: st.Error.Get(),
		input:   ti,
	}
}

// Subscribe forwards every change of the store's containers to send.
// send receives the current values immediately.
func Subscribe(st *store.Store, send func(tea.Msg)) (unsubscribe func()) {
	unsubTodos := st.Todos.Subscribe(func(todos []service.Todo) { send(todosMsg(todos)) })
	unsubLoading := st.Loading.Subscribe(func(v bool) { send(loadingMsg(v)) })
	unsubError := st.Error.Subscribe(func(s string) { send(errorMsg(s)) })
	return func() {
		unsubTodos()
		unsubLoading()
		unsubError()
	}
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, st *store.Store) error {
	p := tea.NewProgram(NewModel(ctx, st), tea.WithAltScreen(), tea.WithContext(ctx))

	// Send blocks until the event loop is running, so subscribe from a
	// separate goroutine.
	var wg sync.WaitGroup
	var unsubscribe func()
	wg.Add(1)
	go func() {
		defer wg.Done()
		unsubscribe = Subscribe(st, p.Send)
	}()

	_, err := p.Run()
	wg.Wait()
	unsubscribe()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init fetches the list.
func (m Model) Init() tea.Cmd {
	return m.run(m.st.FetchTodos)
}

func (m Model) run(op func(ctx context.Context)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		op(ctx)
		return opDoneMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case todosMsg:
		m.todos = msg
		m.clampCursor()
		return m, nil
	case loadingMsg:
		m.loading = bool(msg)
		return m, nil
	case errorMsg:
		m.errText = string(msg)
		return m, nil
	case opDoneMsg:
		return m, nil
	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateBrowsing(msg)
	}

	if m.adding {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.todos)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.run(m.st.FetchTodos)
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.addErr = ""
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			return m, m.run(func(ctx context.Context) { m.st.ToggleTodo(ctx, t.ID, t.Completed) })
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			return m, m.run(func(ctx context.Context) { m.st.DeleteTodo(ctx, t.ID) })
		}
	}
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			m.addErr = "Title cannot be empty"
			return m, nil
		}
		m.adding = false
		m.input.SetValue("")
		m.input.Blur()
		return m, m.run(func(ctx context.Context) { m.st.AddTodo(ctx, title, "") })
	case key.Matches(msg, m.keys.Cancel):
		m.adding = false
		m.input.SetValue("")
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) selected() (service.Todo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.todos) {
		return service.Todo{}, false
	}
	return m.todos[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.todos) {
		m.cursor = len(m.todos) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	done := 0
	for _, t := range m.todos {
		if t.Completed {
			done++
		}
	}
	fmt.Fprintf(&b, "%s   %s %d  %s %d  %s %d\n\n",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), len(m.todos)-done,
		accentStyle.Render("Total"), len(m.todos),
	)

	if len(m.todos) == 0 && !m.loading {
		b.WriteString(mutedStyle.Render("  no todos yet, press a to add one") + "\n")
	}
	for i, t := range m.todos {
		b.WriteString(renderTodo(t, i == m.cursor) + "\n")
	}

	if m.adding {
		b.WriteString("\n" + m.input.View() + "\n")
		b.WriteString(helpStyle.Render(helpLine([]key.Binding{m.keys.Confirm, m.keys.Cancel})) + "\n")
		if m.addErr != "" {
			b.WriteString(errorStyle.Render(m.addErr) + "\n")
		}
	}
	if m.loading {
		b.WriteString("\n" + mutedStyle.Render("loading...") + "\n")
	}
	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render("✖ "+m.errText) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(helpLine(m.keys.help())) + "\n")
	return b.String()
}

func renderTodo(t service.Todo, selected bool) string {
	box := mutedStyle.Render(boxUnchecked)
	title := t.Title
	if t.Completed {
		box = successStyle.Render(boxChecked)
		title = doneStyle.Render(title)
	}
	prefix := "  "
	if selected {
		prefix = selectedStyle.Render("> ")
	}
	return fmt.Sprintf("%s%s %s", prefix, box, title)
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
