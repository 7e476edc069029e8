// Package banner prints the supervisor's startup notice.
//
// The notice is the first observable side effect of the process: it is
// written to stdout before the sidecar launch is attempted and before the
// delegate takes over.
package banner

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Info carries the values shown in the startup notice.
type Info struct {
	Version         string
	SidecarBin      string
	SidecarConfig   string
	SidecarLog      string
	SidecarDisabled bool
	DelegateTarget  string
	NoExec          bool
}

var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorMuted   = lipgloss.Color("#9CA3AF") // Medium gray

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// Print writes the startup notice to w. When w is not a terminal, lipgloss
// degrades to plain text, which is what ends up in container logs.
func Print(w io.Writer, info Info) {
	var b strings.Builder

	b.WriteString(titleStyle.Render("go-sidecar-entrypoint "+info.Version) + "\n")

	if info.SidecarDisabled {
		b.WriteString(fmt.Sprintf("  %s disabled\n", labelStyle.Render("Sidecar:")))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s --config %s\n",
			labelStyle.Render("Sidecar:"), info.SidecarBin, info.SidecarConfig))
		b.WriteString(fmt.Sprintf("  %s %s\n",
			labelStyle.Render("Log:"), info.SidecarLog))
	}

	mode := "exec"
	if info.NoExec {
		mode = "supervise"
	}
	b.WriteString(fmt.Sprintf("  %s %s (%s)\n",
		labelStyle.Render("Delegate:"), info.DelegateTarget, mode))

	fmt.Fprintln(w)
	fmt.Fprint(w, b.String())
	fmt.Fprintln(w)
}
