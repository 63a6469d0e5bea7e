package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Psychedelic/xtc-audit/internal/services/syncer"
	"github.com/Psychedelic/xtc-audit/internal/source"
	"github.com/Psychedelic/xtc-audit/internal/storage/history"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	var target uint64

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Back up the remote transaction history into the local store",
		Long: `Sync fetches every transaction the local backup is missing, in ascending
index order, and persists each one before fetching the next. An interrupted
run leaves a valid prefix; the next run resumes at the first missing index.

By default the target count is read from the gateway's stats. --target
overrides it.`,
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

			src := source.NewGatewayClient(conf.GatewayURL, conf.RequestTimeout)
			s := syncer.New(src, store, logger)

			var stored uint64
			if cmd.Flags().Changed("target") {
				stored, err = s.SyncTo(cmd.Context(), target)
			} else {
				stored, err = s.Sync(cmd.Context())
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "stored %d new transactions, history synced to #%d\n",
				stored, store.NextIndex())
			return nil
		},
	}

	cmd.Flags().Uint64Var(&target, "target", 0, "sync up to this history count instead of the remote's stated count")

	return cmd
}
