package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Psychedelic/xtc-audit/internal/domain"
	"github.com/Psychedelic/xtc-audit/internal/services/replay"
	"github.com/Psychedelic/xtc-audit/internal/storage/history"
)

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay the stored history into per-account balances",
		Long: `Replay folds the locally stored transaction history, in index order, into
a balance per account and prints the result. It never touches the network;
run sync first.`,
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

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%d accounts from %d stored transactions", len(ledger), store.NextIndex())))
			for _, id := range ledger.Accounts() {
				fmt.Fprintf(out, "%s %s\n", id.Text(), domain.FormatAmount(ledger.Balance(id)))
			}
			return nil
		},
	}
	return cmd
}
