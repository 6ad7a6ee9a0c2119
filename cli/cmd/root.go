package cmd

import (
	"os"

	"github.com/a13labs/m3uflat/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	LogFile  string
	LogLevel string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "m3uflat",
	Short: "Parse, flatten and serve M3U playlists",
	Long: `m3uflat reads M3U and extended M3U playlists, resolves their entries to
paths or URLs, expands nested local playlists and serves the result over HTTP.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(LogFile, LogLevel)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {

	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&LogFile, "log-file", "", "Write the log to this file instead of stderr")
	RootCmd.PersistentFlags().StringVar(&LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
