package main

import (
	"github.com/ironsheep/raster-bridge/internal/bridge"
	"github.com/ironsheep/raster-bridge/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the bridge as an MCP server over stdio",
	Long: `Serve the bridge over the Model Context Protocol on stdin and stdout.
Configure it in an MCP client such as Claude Desktop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var anchor bridge.Anchor
		a, err := newApp(&anchor)
		if a == nil {
			return err
		}
		defer a.close()
		if err != nil {
			// bridge_status reports why; the image and command tools still work.
			log.Errorf("%v", err)
		}

		log.Infof("raster-bridge %s (built %s, commit %s) serving", Version, BuildTime, GitCommit)
		return server.New(a.session, a.table, Version).Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
