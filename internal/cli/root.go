// Package cli wires scribe's commands. Flag surface is intentionally
// thin: configuration belongs in the config file.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/arlogriffin/scribe/internal/config"
	"github.com/arlogriffin/scribe/internal/logging"
)

var (
	cfgFile  string
	logLevel string

	// loaded by the root PersistentPreRunE
	paths config.Paths
	cfg   config.Config
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scribe",
		Short: "scribe is an AI coding assistant for your terminal",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			cfg, err = config.Load(paths.Config)
			if err != nil {
				return err
			}
			level := cfg.Logging.Level
			if logLevel != "" {
				level = logLevel
			}
			log = logging.New(nil, level)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.scribe/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newSessionsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
