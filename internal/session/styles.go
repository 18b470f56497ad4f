package session

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#4ECDC4")
	successColor = lipgloss.Color("#A8E6CF")
	warningColor = lipgloss.Color("#FFE66D")
	errorColor   = lipgloss.Color("#FF6B6B")
	subtleColor  = lipgloss.Color("#666666")
)

// styles are bound to the session's writer so color support is detected on
// the real output rather than on os.Stdout.
type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	subtle  lipgloss.Style
	prompt  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(primaryColor),
		success: r.NewStyle().Foreground(successColor),
		warning: r.NewStyle().Foreground(warningColor),
		err:     r.NewStyle().Foreground(errorColor),
		subtle:  r.NewStyle().Foreground(subtleColor),
		prompt:  r.NewStyle().Bold(true),
	}
}
