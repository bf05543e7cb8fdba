package ui

import (
	"log"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/snapsheet/internal/config"
	"github.com/olivier-w/snapsheet/internal/geometry"
	"github.com/olivier-w/snapsheet/internal/sheet"
	"github.com/olivier-w/snapsheet/internal/spring"
)

// chromeRows is the space below the container used by the status and help
// lines.
const chromeRows = 2

// maxFrameGap caps the interval fed to the spring after the program stalls.
const maxFrameGap = 100 * time.Millisecond

// Model is the Bubbletea model hosting a single panel. It plays the frame
// clock, drag source and container-size source for the controller.
type Model struct {
	cfg    config.Config
	anim   *spring.Animator
	sheet  *sheet.Controller
	events *sheetEvents
	keys   keyMap
	help   help.Model
	now    func() time.Time

	width     int
	height    int
	presented bool
	ticking   bool
	lastFrame time.Time
	dragging  bool
	dragY     int
	notice    string
	quitting  bool
}

// New creates a Model from a validated config.
func New(cfg config.Config) Model {
	anim := spring.New(cfg.FPS)
	events := &sheetEvents{}
	c := sheet.New(anim, cfg.Options(measureContent(cfg.Content)))
	c.AddDelegate(events)
	return Model{
		cfg:    cfg,
		anim:   anim,
		sheet:  c,
		events: events,
		keys:   newKeyMap(),
		help:   help.New(),
		now:    time.Now,
	}
}

// Phase returns the controller's phase.
func (m Model) Phase() sheet.Phase { return m.sheet.Phase() }

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("snapsheet")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		size := m.container()
		if !m.presented {
			m.sheet.Present(size, m.cfg.InitialIndex(size, measureContent(m.cfg.Content)))
			m.presented = m.sheet.Phase() != sheet.Presenting
		} else {
			m.sheet.Reset(size)
		}

	case frameMsg:
		m.ticking = false
		t := time.Time(msg)
		dt := t.Sub(m.lastFrame)
		if dt <= 0 || dt > maxFrameGap {
			dt = m.anim.FrameInterval()
		}
		m.lastFrame = t
		m.anim.Tick(dt)

	case dismissAreaMsg:
		m.sheet.Dismiss()

	case removalMsg:
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case ConfigReloadedMsg:
		if msg.Err != nil {
			log.Printf("ui: config reload: %v", msg.Err)
			m.notice = "config: " + msg.Err.Error()
			return m, nil
		}
		m.cfg = msg.Config
		m.notice = "config reloaded"
		m.anim.SetFPS(m.cfg.FPS)
		m.sheet.Configure(m.cfg.Options(measureContent(m.cfg.Content)))
	}

	cmd := tea.Batch(m.schedule(), m.events.drain())
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.anim.Stop()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if i := m.sheet.TargetIndex() - 1; m.sheet.Layout().Valid(i) {
			m.sheet.Transition(i)
		}
	case key.Matches(msg, m.keys.Down):
		if i := m.sheet.TargetIndex() + 1; m.sheet.Layout().Valid(i) {
			m.sheet.Transition(i)
		}
	case key.Matches(msg, m.keys.Dismiss):
		m.sheet.Dismiss()
	}
	cmd := tea.Batch(m.schedule(), m.events.drain())
	return m, cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	now := m.now()
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y < int(math.Round(m.sheet.Offset())) || msg.Y >= m.containerRows() {
			return
		}
		m.dragging = true
		m.dragY = msg.Y
		m.sheet.Drag(sheet.DragSample{Phase: sheet.GestureBegan, Time: now})
	case tea.MouseActionMotion:
		if !m.dragging {
			return
		}
		delta := msg.Y - m.dragY
		m.dragY = msg.Y
		m.sheet.Drag(sheet.DragSample{Phase: sheet.GestureChanged, Delta: float64(delta), Time: now})
	case tea.MouseActionRelease:
		if !m.dragging {
			return
		}
		m.dragging = false
		delta := msg.Y - m.dragY
		m.sheet.Drag(sheet.DragSample{Phase: sheet.GestureEnded, Delta: float64(delta), Time: now})
	}
}

// schedule requests the next frame while the spring is running.
func (m *Model) schedule() tea.Cmd {
	if m.ticking || !m.anim.Active() {
		return nil
	}
	m.ticking = true
	if m.lastFrame.IsZero() || m.now().Sub(m.lastFrame) > maxFrameGap {
		m.lastFrame = m.now()
	}
	return frameCmd(m.anim.FrameInterval())
}

func (m Model) containerRows() int {
	return max(m.height-chromeRows, 0)
}

func (m Model) container() geometry.Size {
	return geometry.Size{Width: float64(m.width), Height: float64(m.containerRows())}
}

func (m Model) View() string {
	if m.quitting || m.width == 0 {
		return ""
	}

	rows := m.containerRows()
	top := int(math.Round(m.sheet.Offset()))
	top = min(max(top, 0), rows)

	lines := renderBackdrop(m.width, top, m.sheet.Alpha())
	if top < rows {
		panel := strings.Split(renderPanel(m.cfg.Content, m.width), "\n")
		for i := 0; top+i < rows; i++ {
			if i < len(panel) {
				lines = append(lines, panel[i])
			} else {
				lines = append(lines, "")
			}
		}
	}

	status := statusStyle.Render(renderStatus(m.sheet))
	if m.notice != "" {
		status += "  " + noticeStyle.Render(m.notice)
	}
	lines = append(lines, status, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}
