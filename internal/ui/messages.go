package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/snapsheet/internal/config"
)

type frameMsg time.Time
type dismissAreaMsg struct{}
type removalMsg struct{}

// ConfigReloadedMsg carries a reloaded tuning file into the program.
type ConfigReloadedMsg struct {
	Config config.Config
	Err    error
}

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
