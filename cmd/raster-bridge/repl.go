package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/raster-bridge/internal/bridge"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const historyFile = ".raster_bridge_history"

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Type scripts into the active interpreter module",
	Long: `Read script text line by line and run each line in the active module.
End a line with a backslash to continue it. Lines starting with a colon are
REPL commands: :status, :commands and :quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

		var anchor bridge.Anchor
		a, err := newApp(&anchor)
		if err != nil {
			if a != nil {
				fmt.Fprint(stderr, a.session.StartupMessage())
			}
			return err
		}
		defer a.close()

		banner := fmt.Sprintf("raster-bridge %s, module %s", Version, a.session.Active())
		fmt.Fprintln(stdout, bannerStyle.Render(titleStyle.Render(banner)))
		if msg := a.session.StartupMessage(); msg != "" {
			fmt.Fprint(stdout, dimStyle.Render(msg))
			fmt.Fprintln(stdout)
		}
		if !a.session.Interactive() {
			return errors.New("interactive input is disabled in the configuration")
		}
		return repl(a, stdout, stderr)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func repl(a *app, stdout, stderr io.Writer) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	prompt := a.session.Active() + "> "
	for {
		code, ok := readEntry(ln, prompt)
		if !ok {
			fmt.Fprintln(stdout)
			return nil
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return nil
			case ":status":
				fmt.Fprintf(stdout, "%s %s\n%s %s\n",
					dimStyle.Render("State:"), a.session.State(),
					dimStyle.Render("Modules:"), strings.Join(a.session.Modules(), ", "))
			case ":commands":
				formatCommands(stdout, a.table, false)
			default:
				fmt.Fprintln(stderr, warnStyle.Render("unknown command. Type :quit to exit."))
			}
			continue
		}

		out, errText, _ := a.session.Execute(code, progressPrinter{w: stderr})
		writeResult(stdout, stderr, out, errText)
	}
}

// readEntry reads one entry, joining lines that end in a backslash. It
// reports false at end of input or when the prompt is aborted.
func readEntry(ln *liner.State, prompt string) (string, bool) {
	var b strings.Builder
	p := prompt
	for {
		line, err := ln.Prompt(p)
		if err != nil {
			return "", false
		}
		if cont, ok := strings.CutSuffix(line, "\\"); ok {
			b.WriteString(cont)
			b.WriteByte('\n')
			p = strings.Repeat(".", len(prompt)-1) + " "
			continue
		}
		b.WriteString(line)
		return b.String(), true
	}
}
