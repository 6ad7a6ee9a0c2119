package serve

import (
	"github.com/a13labs/m3uflat/cli/cmd"
	"github.com/a13labs/m3uflat/pkg/logger"
	"github.com/a13labs/m3uflat/pkg/playlistserver"
	"github.com/spf13/cobra"
)

var configFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the configured playlists over HTTP",
	Long:  `Start an HTTP server that loads the configured playlists on each request and serves them as M3U or JSON.`,
	RunE: func(c *cobra.Command, args []string) error {
		config, err := playlistserver.LoadConfig(configFile)
		if err != nil {
			return err
		}

		// Command line flags take precedence over the configuration file.
		logFile, logLevel := config.LogFile, config.LogLevel
		if c.Flags().Changed("log-file") {
			logFile = cmd.LogFile
		}
		if c.Flags().Changed("log-level") {
			logLevel = cmd.LogLevel
		}
		logger.Init(logFile, logLevel)

		return playlistserver.Start(config)
	},
}

func init() {
	cmd.RootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&configFile, "config", "c", "m3uflat.yaml", "Config file (JSON or YAML)")
}
