// Package tui provides the Bubbletea slider panel for the equalizer.
package tui

import (
	"math"

	"github.com/agusx1211/two-band-eq/internal/panel"
	tea "github.com/charmbracelet/bubbletea"
)

// Controls is the parameter panel the model edits.
type Controls interface {
	Title() string
	Params() []panel.Param
	SetValue(index, value int) error
	Step(index, delta int) error
}

// Output is the master gain stage, if the model should drive one.
type Output interface {
	Volume() float64
	SetVolume(v float64)
	Power() bool
	SetPower(on bool)
}

const volumeStep = 0.05

// Model is the Bubbletea model for the slider panel. Panel writes run inside
// commands; panel listeners never execute on the Update goroutine.
type Model struct {
	Controls Controls
	Output   Output
	Defaults []int

	Params   []panel.Param
	Selected int
	Err      error
	Done     bool

	Width  int
	Height int
}

func NewModel(controls Controls, defaults []int, output Output) Model {
	return Model{
		Controls: controls,
		Output:   output,
		Defaults: defaults,
		Params:   controls.Params(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case ParamsChangedMsg:
		m.Params = m.Controls.Params()

	case OutputChangedMsg:
		// Rendered straight from Output; nothing to copy.

	case setResultMsg:
		m.Err = msg.err
		m.Params = m.Controls.Params()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.Done = true
		return m, tea.Quit
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j", "tab":
		if m.Selected < len(m.Params)-1 {
			m.Selected++
		}
	case "left", "h":
		return m, m.step(-10)
	case "right", "l":
		return m, m.step(10)
	case "[":
		return m, m.step(-1)
	case "]":
		return m, m.step(1)
	case "pgdown":
		return m, m.step(-100)
	case "pgup":
		return m, m.step(100)
	case "r":
		if m.Selected < len(m.Defaults) {
			return m, setValueCmd(m.Controls, m.Selected, m.Defaults[m.Selected])
		}
	case "+", "=":
		return m, m.nudgeVolume(volumeStep)
	case "-":
		return m, m.nudgeVolume(-volumeStep)
	case "p", " ":
		if m.Output != nil {
			out := m.Output
			return m, func() tea.Msg {
				out.SetPower(!out.Power())
				return OutputChangedMsg{}
			}
		}
	}
	return m, nil
}

func (m Model) step(delta int) tea.Cmd {
	if len(m.Params) == 0 {
		return nil
	}
	controls, index := m.Controls, m.Selected
	return func() tea.Msg {
		return setResultMsg{err: controls.Step(index, delta)}
	}
}

func (m Model) nudgeVolume(delta float64) tea.Cmd {
	if m.Output == nil {
		return nil
	}
	out := m.Output
	return func() tea.Msg {
		v := math.Round((out.Volume()+delta)*100) / 100
		out.SetVolume(v)
		return OutputChangedMsg{}
	}
}

func setValueCmd(controls Controls, index, value int) tea.Cmd {
	return func() tea.Msg {
		return setResultMsg{err: controls.SetValue(index, value)}
	}
}

func (m Model) View() string {
	if m.Done {
		return ""
	}
	return renderPanel(m)
}
