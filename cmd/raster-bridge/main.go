package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var log = commonlog.GetLogger("raster-bridge")

var (
	configDir string
	module    string
	verbose   int
)

var rootCmd = &cobra.Command{
	Use:   "raster-bridge",
	Short: "Scripting bridge between interpreters and a raster image host",
	Long: `raster-bridge embeds interpreter runtimes in a raster image host. Scripts
move arrays in and out of raster elements and drive windows, layers,
animations and display settings through the host command table.

Settings are read from raster-bridge.toml in the working directory or the
nearest parent that has one.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging()
	},
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("raster-bridge %s\n  Build time: %s\n  Git commit: %s\n", Version, BuildTime, GitCommit))

	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "", "Directory to search for raster-bridge.toml (default: working directory)")
	rootCmd.PersistentFlags().StringVarP(&module, "module", "m", "", "Interpreter module to run scripts in, overriding the configured one")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Log more to stderr (repeat for debug)")
}

// configureLogging sends log output to stderr; stdout carries MCP traffic
// when serving.
func configureLogging() {
	level := verbose
	switch strings.ToLower(os.Getenv("RASTER_BRIDGE_LOG_LEVEL")) {
	case "debug":
		level = 2
	case "info":
		level = max(level, 1)
	}
	commonlog.Configure(level, nil)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
