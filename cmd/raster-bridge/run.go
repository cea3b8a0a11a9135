package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/raster-bridge/internal/bridge"
	"github.com/ironsheep/raster-bridge/internal/commands"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a script file in the active interpreter module",
	Long: `Run a script file in the active interpreter module and exit. A script
path of "-" reads standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readScript(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		var anchor bridge.Anchor
		a, err := newApp(&anchor)
		if err != nil {
			if a != nil {
				fmt.Fprint(cmd.ErrOrStderr(), a.session.StartupMessage())
			}
			return err
		}
		defer a.close()

		out, errText, err := a.session.Execute(text, progressPrinter{w: cmd.ErrOrStderr()})
		writeResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), out, errText)
		if err != nil {
			return fmt.Errorf("%s failed", args[0])
		}
		return nil
	},
}

func readScript(stdin io.Reader, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("cannot read script: %w", err)
	}
	return string(data), nil
}

var commandsVerbose bool

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the host commands scripts can call",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatCommands(cmd.OutOrStdout(), commands.Default(), commandsVerbose)
		return nil
	},
}

func init() {
	commandsCmd.Flags().BoolVarP(&commandsVerbose, "keywords", "k", false, "Show each command's keywords")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(commandsCmd)
}
