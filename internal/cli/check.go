package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Psychedelic/xtc-audit/internal/services/statscheck"
	"github.com/Psychedelic/xtc-audit/internal/source"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Sanity-check the remote aggregate counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := rootOpts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			src := source.NewGatewayClient(conf.GatewayURL, conf.RequestTimeout)
			result, err := statscheck.Check(cmd.Context(), src)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "balance %s, supply %s\n", result.Balance, result.Supply)

			if result.Suspicious() {
				fmt.Fprintln(out, failStyle.Render("circulating balance exceeds supply"))
				return errors.New("stats check failed")
			}

			fmt.Fprintln(out, okStyle.Render("stats checks passed"))
			return nil
		},
	}
	return cmd
}
