package ui

import "github.com/charmbracelet/lipgloss"

const (
	backdropColor = "#5F87AF"
	dimColor      = "#101010"
	maxDim        = 0.75
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true, true, false, true).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#666666"}).
			Padding(0, 1)

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})

	contentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"})

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#AA5500", Dark: "#FFAF5F"})
)
