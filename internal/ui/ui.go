// Package ui is an interactive view over the pending task list.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amirbrooks/taskline/internal/store"
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

// Model is the bubbletea model for the interactive view. It holds the
// current pending listing (newest first, same numbering as the CLI) and
// reloads it after every mutation.
type Model struct {
	ws     *store.Workspace
	tasks  []store.TaskView
	cursor int
	mode   mode
	input  textinput.Model
	status string
}

func New(ws *store.Workspace) (Model, error) {
	tasks, err := ws.Pending()
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = "Task text"
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		ws:     ws,
		tasks:  tasks,
		cursor: clampCursor(0, len(tasks)),
		input:  ti,
		status: "Press 'a' to add, 'x' to complete, 'c' to cancel, 'q' to quit.",
	}, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.updateAddMode(msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			m.status = "Task cannot be empty"
			return m, nil
		}
		if _, err := m.ws.Add(store.Today(), text); err != nil {
			m.status = fmt.Sprintf("add failed: %v", err)
			return m, nil
		}
		m.reload("Added task")
		m.cursor = 0
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "down", "j":
		if len(m.tasks) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case "up", "k":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.tasks))
		}
	case "a":
		m.mode = modeAdd
		m.input.Focus()
		m.status = "Add mode: type the task text and press Enter"
	case "x":
		if len(m.tasks) == 0 {
			return m, nil
		}
		n := m.tasks[m.cursor].N
		results, err := m.ws.Complete([]int{n}, store.Today())
		if err != nil {
			m.status = fmt.Sprintf("complete failed: %v", err)
			return m, nil
		}
		if len(results) == 1 && results[0].Err != nil {
			m.status = fmt.Sprintf("complete failed: %v", results[0].Err)
			return m, nil
		}
		m.reload(fmt.Sprintf("Task %d marked as completed", n))
	case "c":
		if len(m.tasks) == 0 {
			return m, nil
		}
		n := m.tasks[m.cursor].N
		if _, err := m.ws.Cancel(n, store.Today()); err != nil {
			m.status = fmt.Sprintf("cancel failed: %v", err)
			return m, nil
		}
		m.reload(fmt.Sprintf("Task %d marked as cancelled", n))
	}
	return m, nil
}

// reload refreshes the pending listing; display numbers shift after a
// mutation, so the stale view must never survive it.
func (m *Model) reload(status string) {
	tasks, err := m.ws.Pending()
	if err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	m.tasks = tasks
	m.cursor = clampCursor(m.cursor, len(tasks))
	m.status = status
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("taskline — pending tasks (newest first)")
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString("No pending tasks. Press 'a' to add one.")
	} else {
		for i, t := range m.tasks {
			cursor := " "
			if m.cursor == i && m.mode == modeList {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s %d - %s", cursor, t.N, strings.TrimPrefix(t.Line, "- ")))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.mode == modeAdd {
		b.WriteString("Add Task: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString("j/k move • a add • x complete • c cancel • q quit")

	return b.String()
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
