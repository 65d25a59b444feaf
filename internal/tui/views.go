package tui

import (
	"fmt"
	"strings"

	"github.com/agusx1211/two-band-eq/internal/panel"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 32

var (
	accentColor = lipgloss.Color("#00A3A3")
	mutedColor  = lipgloss.Color("#888888")
	errorColor  = lipgloss.Color("#A40000")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	labelStyle = lipgloss.NewStyle().
			Width(34)

	selectedStyle = labelStyle.
			Bold(true).
			Foreground(accentColor)

	barStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)
)

func renderPanel(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.Controls.Title()))
	b.WriteString("\n\n")

	for i, p := range m.Params {
		b.WriteString(renderParam(p, i == m.Selected))
		b.WriteString("\n")
	}

	if m.Output != nil {
		b.WriteString("\n")
		b.WriteString(renderOutput(m.Output))
		b.WriteString("\n")
	}

	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: ") + m.Err.Error())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("↑/↓ select  ←/→ ±10  [/] ±1  pgup/pgdn ±100  r reset  +/- volume  p power  q quit"))
	return b.String()
}

func renderParam(p panel.Param, selected bool) string {
	cursor := "  "
	style := labelStyle
	if selected {
		cursor = "> "
		style = selectedStyle
	}
	return fmt.Sprintf("%s%s %s %s", cursor, style.Render(p.Label), renderBar(p), mutedStyle.Render(fmt.Sprintf("%4d", p.Value)))
}

func renderBar(p panel.Param) string {
	filled := 0
	if span := p.Max - p.Min; span > 0 {
		filled = (p.Value - p.Min) * barWidth / span
	}
	filled = max(0, min(barWidth, filled))
	return barStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", barWidth-filled))
}

func renderOutput(out Output) string {
	power := "off"
	if out.Power() {
		power = "on"
	}
	return mutedStyle.Render(fmt.Sprintf("Volume: %3.0f%%  Power: %s", out.Volume()*100, power))
}
