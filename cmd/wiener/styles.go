package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorSuccess = lipgloss.Color("#00D9A3")
	ColorWarning = lipgloss.Color("#FFB800")
	ColorError   = lipgloss.Color("#FF4757")
	ColorMuted   = lipgloss.Color("#7C7C7C")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Width(8)
)

// section renders a banner such as "==== Cracking ====".
func section(title string) string {
	bar := strings.Repeat("=", 20)
	return TitleStyle.Render(fmt.Sprintf("%s %s %s", bar, title, bar))
}

// field renders one labelled value per line, indented under a heading.
func field(label string, value interface{}) string {
	return "    " + LabelStyle.Render(label+":") + " " + fmt.Sprint(value)
}
