package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	primaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C00"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00CFCF"))
	silentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

// colorEnabled is false when stdout is not a terminal or NO_COLOR is set.
var colorEnabled = os.Getenv("NO_COLOR") == "" &&
	(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

func render(style lipgloss.Style, text string) string {
	if !colorEnabled {
		return text
	}
	return style.Render(text)
}

func Primary(text string) string { return render(primaryStyle, text) }
func Error(text string) string   { return render(errorStyle, text) }
func Warning(text string) string { return render(warningStyle, text) }
func Info(text string) string    { return render(infoStyle, text) }
func Silent(text string) string  { return render(silentStyle, text) }
