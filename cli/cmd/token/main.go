package token

import (
	"fmt"

	"github.com/a13labs/m3uflat/cli/cmd"
	"github.com/a13labs/m3uflat/pkg/auth"
	"github.com/a13labs/m3uflat/pkg/playlistserver"
	"github.com/spf13/cobra"
)

var (
	configFile string
	subject    string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token",
	Long:  `Issue a bearer token signed with the secret key of the server configuration.`,
	RunE: func(c *cobra.Command, args []string) error {
		config, err := playlistserver.LoadConfig(configFile)
		if err != nil {
			return err
		}

		if err := auth.Init(config.Auth); err != nil {
			return fmt.Errorf("failed to initialize authentication: %w", err)
		}

		token, err := auth.CreateToken(subject)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(c.OutOrStdout(), token)
		return err
	},
}

func init() {
	cmd.RootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVarP(&configFile, "config", "c", "m3uflat.yaml", "Config file (JSON or YAML)")
	tokenCmd.Flags().StringVarP(&subject, "subject", "s", "", "Token subject")
	tokenCmd.MarkFlagRequired("subject")
}
