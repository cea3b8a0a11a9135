package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ironsheep/raster-bridge/internal/commands"
	"github.com/ironsheep/raster-bridge/internal/host"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

// writeResult prints script output, with the error channel styled.
func writeResult(stdout, stderr io.Writer, out, errText string) {
	if out != "" {
		fmt.Fprint(stdout, out)
		if !strings.HasSuffix(out, "\n") {
			fmt.Fprintln(stdout)
		}
	}
	if errText != "" {
		fmt.Fprintln(stderr, errorStyle.Render(strings.TrimRight(errText, "\n")))
	}
}

// progressPrinter shows REPORT_PROGRESS calls as they happen.
type progressPrinter struct {
	w io.Writer
}

func (p progressPrinter) UpdateProgress(message string, percent int, level host.ReportingLevel) {
	line := fmt.Sprintf("[%3d%%] %s", percent, message)
	switch level {
	case host.Normal:
		line = dimStyle.Render(line)
	case host.Warning:
		line = warnStyle.Render(line)
	default:
		line = errorStyle.Render(level.String() + " " + line)
	}
	fmt.Fprintln(p.w, line)
}

// formatCommands lists the command table, one command per line.
func formatCommands(w io.Writer, table *commands.Table, verbose bool) {
	for _, cmd := range table.Commands() {
		var args []string
		for i, p := range cmd.Args {
			if i >= cmd.MinArgs {
				args = append(args, "["+p.Name+"]")
			} else {
				args = append(args, p.Name)
			}
		}
		fmt.Fprintf(w, "%s(%s)\n", titleStyle.Render(cmd.Name), strings.Join(args, ", "))
		fmt.Fprintf(w, "    %s\n", dimStyle.Render(cmd.Description))
		if !verbose {
			continue
		}
		for _, p := range cmd.Keywords {
			dir := "in "
			if p.Output {
				dir = "out"
			}
			fmt.Fprintf(w, "    %s %-16s %s\n", dir, p.Name, dimStyle.Render(p.Description))
		}
	}
}
