package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/notification-center/internal/logger"
)

// LogUpdateMsg reports that new entries reached the log buffer.
type LogUpdateMsg struct{}

// ActionResultMsg carries the outcome of a menu action.
type ActionResultMsg struct {
	Status string
	Err    error
}

// ListenLogs waits for the next buffer update.
func ListenLogs(buffer *logger.Buffer) tea.Cmd {
	return func() tea.Msg {
		<-buffer.Updates()
		return LogUpdateMsg{}
	}
}
