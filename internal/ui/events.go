package ui

import tea "github.com/charmbracelet/bubbletea"

// sheetEvents queues delegate callbacks as messages so they are handled on a
// later pass of Update instead of re-entering the controller.
type sheetEvents struct {
	pending []tea.Msg
}

func (e *sheetEvents) ReachedDismissArea() {
	e.pending = append(e.pending, dismissAreaMsg{})
}

func (e *sheetEvents) RequestRemoval() {
	e.pending = append(e.pending, removalMsg{})
}

func (e *sheetEvents) drain() tea.Cmd {
	if len(e.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(e.pending))
	for i, msg := range e.pending {
		cmds[i] = func() tea.Msg { return msg }
	}
	e.pending = nil
	return tea.Batch(cmds...)
}
