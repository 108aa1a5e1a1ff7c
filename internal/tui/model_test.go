package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/store"
	"todo/internal/testutil"
)

// harness drives a Model the way a running program would: container
// notifications are queued and fed back through Update.
type harness struct {
	t     *testing.T
	m     Model
	queue []tea.Msg
	unsub func()
}

func newHarness(t *testing.T, svc service.Service) *harness {
	t.Helper()
	st := store.New(svc, logging.Discard())
	h := &harness{t: t, m: NewModel(context.Background(), st)}
	h.unsub = Subscribe(st, func(msg tea.Msg) { h.queue = append(h.queue, msg) })
	t.Cleanup(h.unsub)
	h.drain()
	return h
}

func (h *harness) drain() {
	for len(h.queue) > 0 {
		msg := h.queue[0]
		h.queue = h.queue[1:]
		h.update(msg)
	}
}

func (h *harness) update(msg tea.Msg) tea.Cmd {
	model, cmd := h.m.Update(msg)
	h.m = model.(Model)
	return cmd
}

// press sends a key and runs the store command it starts, if any.
func (h *harness) press(msg tea.KeyMsg) {
	h.t.Helper()
	if cmd := h.update(msg); cmd != nil {
		cmd()
	}
	h.drain()
}

func (h *harness) init() {
	h.m.Init()()
	h.drain()
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func seeded() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTodo(service.Todo{ID: 1, Title: "A", Completed: false})
	svc.AddTodo(service.Todo{ID: 2, Title: "B", Completed: true})
	return svc
}

func TestInitFetches(t *testing.T) {
	h := newHarness(t, seeded())
	h.init()

	if len(h.m.todos) != 2 {
		t.Fatalf("todos = %v, want 2 items", h.m.todos)
	}
	if h.m.loading {
		t.Error("loading should be false after fetch")
	}
	view := h.m.View()
	if !strings.Contains(view, "A") || !strings.Contains(view, "B") {
		t.Errorf("view missing titles:\n%s", view)
	}
}

func TestCursorMovesAndClamps(t *testing.T) {
	h := newHarness(t, seeded())
	h.init()

	h.press(runes("k"))
	if h.m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", h.m.cursor)
	}
	h.press(runes("j"))
	h.press(runes("j"))
	if h.m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", h.m.cursor)
	}
	h.press(tea.KeyMsg{Type: tea.KeyUp})
	if h.m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", h.m.cursor)
	}
}

func TestToggleSelected(t *testing.T) {
	svc := seeded()
	h := newHarness(t, svc)
	h.init()

	h.press(runes("x"))

	if !h.m.todos[0].Completed {
		t.Errorf("todo 1 should be completed: %+v", h.m.todos[0])
	}
	if !svc.Todos()[0].Completed {
		t.Error("server todo 1 should be completed")
	}
}

func TestDeleteSelectedClampsCursor(t *testing.T) {
	h := newHarness(t, seeded())
	h.init()

	h.press(runes("j"))
	h.press(runes("d"))

	if len(h.m.todos) != 1 || h.m.todos[0].ID != 1 {
		t.Fatalf("todos = %+v, want only id 1", h.m.todos)
	}
	if h.m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", h.m.cursor)
	}
}

func TestAddFlow(t *testing.T) {
	svc := testutil.NewFakeService()
	h := newHarness(t, svc)
	h.init()

	h.update(runes("a"))
	if !h.m.adding {
		t.Fatal("expected add mode")
	}
	h.update(runes("Buy milk"))

	cmd := h.update(tea.KeyMsg{Type: tea.KeyEnter})
	if h.m.adding {
		t.Error("add mode should close on enter")
	}
	if cmd == nil {
		t.Fatal("expected an add command")
	}
	if _, ok := cmd().(opDoneMsg); !ok {
		t.Fatal("expected opDoneMsg")
	}
	h.drain()

	if len(h.m.todos) != 1 || h.m.todos[0].Title != "Buy milk" {
		t.Errorf("todos = %+v", h.m.todos)
	}
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	svc := testutil.NewFakeService()
	h := newHarness(t, svc)

	h.update(runes("a"))
	h.update(runes("   "))
	if cmd := h.update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("empty title should not start a command")
	}
	if !h.m.adding {
		t.Error("add mode should stay open")
	}
	if !strings.Contains(h.m.View(), "Title cannot be empty") {
		t.Error("view should show the validation message")
	}
}

func TestAddEscapeCancels(t *testing.T) {
	h := newHarness(t, testutil.NewFakeService())

	h.update(runes("a"))
	h.update(runes("draft"))
	h.update(tea.KeyMsg{Type: tea.KeyEsc})

	if h.m.adding {
		t.Error("esc should leave add mode")
	}
	if got := h.m.input.Value(); got != "" {
		t.Errorf("input = %q, want empty", got)
	}
}

func TestErrorShownInView(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTodosErr = errors.New("Network Error")
	h := newHarness(t, svc)
	h.init()

	if h.m.errText != "Network Error" {
		t.Errorf("errText = %q", h.m.errText)
	}
	if !strings.Contains(h.m.View(), "Network Error") {
		t.Errorf("view missing error:\n%s", h.m.View())
	}
}

func TestLoadingShownInView(t *testing.T) {
	h := newHarness(t, testutil.NewFakeService())
	h.update(loadingMsg(true))

	if !strings.Contains(h.m.View(), "loading...") {
		t.Error("view should show loading indicator")
	}
}

func TestQuit(t *testing.T) {
	h := newHarness(t, testutil.NewFakeService())
	cmd := h.update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestUnsubscribeStopsMessages(t *testing.T) {
	st := store.New(testutil.NewFakeService(), logging.Discard())
	var n int
	unsub := Subscribe(st, func(tea.Msg) { n++ })
	if n != 3 {
		t.Fatalf("initial messages = %d, want 3", n)
	}
	unsub()
	st.Loading.Set(true)
	if n != 3 {
		t.Errorf("messages after unsubscribe = %d, want 3", n)
	}
}

func TestAddModeUsesKeyMap(t *testing.T) {
	h := newHarness(t, testutil.NewFakeService())
	h.m.keys.Confirm = key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save"))

	h.update(runes("a"))
	if !strings.Contains(h.m.View(), "ctrl+s save") {
		t.Errorf("add mode help should list the confirm binding:\n%s", h.m.View())
	}
	h.update(runes("Buy milk"))

	h.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !h.m.adding {
		t.Fatal("enter is not bound to confirm and should not submit")
	}

	cmd := h.update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if h.m.adding || cmd == nil {
		t.Fatal("ctrl+s should submit")
	}
	cmd()
	h.drain()
	if len(h.m.todos) != 1 || h.m.todos[0].Title != "Buy milk" {
		t.Errorf("todos = %+v", h.m.todos)
	}
}
