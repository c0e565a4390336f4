package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/notification-center/internal/logger"
	"github.com/rovshanmuradov/notification-center/internal/ui/style"
)

// MenuItem is one entry of the demo menu.
type MenuItem struct {
	Label       string
	Description string

	run  func(ctx context.Context, d *Demo) (string, error)
	quit bool
}

// Model is the bubbletea model of the demo screen: a menu on top and the
// log pane below.
type Model struct {
	ctx    context.Context
	demo   *Demo
	buffer *logger.Buffer

	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	styles   style.Styles

	items    []MenuItem
	selected int

	status    string
	statusErr bool
	cleared   uint64

	width  int
	height int
}

// NewModel creates the demo model. Log entries are read from buffer.
func NewModel(ctx context.Context, demo *Demo, buffer *logger.Buffer) *Model {
	m := &Model{
		ctx:      ctx,
		demo:     demo,
		buffer:   buffer,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(80, 10),
		styles:   style.NewStyles(style.DefaultPalette()),
		items:    defaultMenu(),
		status:   fmt.Sprintf("Event %s", demo.EventID()),
	}
	m.refreshLogs()
	return m
}

func defaultMenu() []MenuItem {
	return []MenuItem{
		{
			Label:       "Register notification",
			Description: "Connect two listeners, disconnect the first and register the event",
			run: func(_ context.Context, d *Demo) (string, error) {
				return d.Register(), nil
			},
		},
		{
			Label:       "Post notification",
			Description: "Send the event to its listeners now",
			run: func(ctx context.Context, d *Demo) (string, error) {
				return d.Post(ctx)
			},
		},
		{
			Label:       "Post queued notification",
			Description: "Queue a low and a high priority event",
			run: func(_ context.Context, d *Demo) (string, error) {
				return d.PostQueued()
			},
		},
		{
			Label:       "Process queued",
			Description: "Deliver queued events by priority",
			run: func(ctx context.Context, d *Demo) (string, error) {
				return d.ProcessQueued(ctx)
			},
		},
		{
			Label:       "Show registry",
			Description: "Log every known event and its listeners",
			run: func(_ context.Context, d *Demo) (string, error) {
				return d.Registry(), nil
			},
		},
		{
			Label:       "Quit",
			Description: "Exit the demo",
			quit:        true,
		},
	}
}

// Init starts listening for log updates.
func (m *Model) Init() tea.Cmd {
	return ListenLogs(m.buffer)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case LogUpdateMsg:
		m.refreshLogs()
		return m, ListenLogs(m.buffer)

	case ActionResultMsg:
		m.setStatus(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.SetSize(m.width, m.height)

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.items)-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.Enter):
		return m.activate(m.items[m.selected])

	case key.Matches(msg, m.keys.ClearLogs):
		m.cleared, _ = m.buffer.Stats()
		m.refreshLogs()

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) activate(item MenuItem) tea.Cmd {
	if item.quit {
		return tea.Quit
	}
	status, err := item.run(m.ctx, m.demo)
	m.setStatus(ActionResultMsg{Status: status, Err: err})
	m.refreshLogs()
	return nil
}

func (m *Model) setStatus(result ActionResultMsg) {
	if result.Err != nil {
		m.status = result.Err.Error()
		m.statusErr = true
		return
	}
	m.status = result.Status
	m.statusErr = false
}

// Status returns the last action result and whether it was an error.
func (m *Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// Selected returns the index of the highlighted menu item.
func (m *Model) Selected() int {
	return m.selected
}

// SetSize resizes the log pane to fill the space below the menu.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if width == 0 || height == 0 {
		return
	}

	m.help.Width = width
	chrome := lipgloss.Height(m.headerView()) + lipgloss.Height(m.help.View(m.keys)) + 2
	m.viewport.Width = max(width-4, 10)
	m.viewport.Height = max(height-chrome, 3)
	m.refreshLogs()
}

func (m *Model) refreshLogs() {
	total, _ := m.buffer.Stats()
	visible := int(total - m.cleared)
	if visible <= 0 {
		m.viewport.SetContent("")
		return
	}

	entries := m.buffer.Recent(visible)
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, m.formatEntry(e))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

func (m *Model) formatEntry(e logger.Entry) string {
	var b strings.Builder
	b.WriteString(m.styles.Time.Render(e.Time.Format("15:04:05")))
	b.WriteByte(' ')
	b.WriteString(m.styles.Level(e.Level).Render(fmt.Sprintf("%-5s", strings.ToUpper(e.Level))))
	if e.Logger != "" {
		b.WriteByte(' ')
		b.WriteString(m.styles.Logger.Render(e.Logger))
	}
	b.WriteByte(' ')
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	return b.String()
}

func (m *Model) headerView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Notification Center"))
	b.WriteByte('\n')

	for i, item := range m.items {
		if i == m.selected {
			b.WriteString(m.styles.Selected.Render("▶ " + item.Label))
		} else {
			b.WriteString(m.styles.MenuItem.Render("  " + item.Label))
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.styles.Description.Render(m.items[m.selected].Description))
	b.WriteByte('\n')

	if m.statusErr {
		b.WriteString(m.styles.StatusError.Render("✗ " + m.status))
	} else {
		b.WriteString(m.styles.Status.Render(m.status))
	}
	return b.String()
}

// View renders the screen.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.styles.Panel.Render(m.viewport.View()),
		m.help.View(m.keys),
	)
}
