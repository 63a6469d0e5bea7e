package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Psychedelic/xtc-audit/internal/services/replay"
	"github.com/Psychedelic/xtc-audit/internal/services/report"
	"github.com/Psychedelic/xtc-audit/internal/storage/history"
)

// NewWhalesCommand creates the whales command.
func NewWhalesCommand(rootOpts *RootOptions) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "whales",
		Short: "List the largest accounts by replayed balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := rootOpts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, err := history.NewStore(conf.BackupDir)
			if err != nil {
				return err
			}

			ledger, err := replay.NewEngine(store, conf.DebitPolicy).Replay()
			if err != nil {
				return err
			}

			if top <= 0 {
				top = conf.WhalesTop
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("top %d accounts (balances in trillions of cycles)", top)))
			for n, entry := range report.Whales(ledger, top) {
				fmt.Fprintf(out, "%3d. %s %sT\n", n+1, entry.Account.Text(), entry.Trillions.StringFixed(3))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "number of accounts to list")

	return cmd
}
