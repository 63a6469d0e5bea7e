// Package cli wires the audit operations into a cobra command tree. Each
// subcommand is independently invocable: sync talks to the gateway, replay
// and history work purely from the local backup, verify adds the live
// refresh step.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Psychedelic/xtc-audit/config"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the xtc-audit root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "xtc-audit",
		Short:         "Read-only auditor for the XTC cycles ledger",
		Long:          "xtc-audit backs up the remote transaction history, replays it into per-account balances and verifies them against live balances.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to yaml config")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewWhalesCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

func (o *RootOptions) load() (config.Config, *zap.Logger, error) {
	conf, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, nil, err
	}

	var logger *zap.Logger
	if o.Verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return config.Config{}, nil, err
	}
	return conf, logger, nil
}
