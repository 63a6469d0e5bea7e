package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Psychedelic/xtc-audit/internal/domain"
	"github.com/Psychedelic/xtc-audit/internal/services/report"
	"github.com/Psychedelic/xtc-audit/internal/storage/history"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <principal>",
		Short: "Show the stored transactions touching one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := domain.ParseIdentity(args[0])
			if err != nil {
				return err
			}

			conf, logger, err := rootOpts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, err := history.NewStore(conf.BackupDir)
			if err != nil {
				return err
			}

			events, err := report.AccountHistory(store, account, conf.DebitPolicy)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%d transactions for %s", len(events), account)))
			for _, event := range events {
				tx := event.Transaction
				fmt.Fprintf(out, "#%d %s cycles=%s fee=%s balance=%s\n",
					tx.Index, tx.Kind.Tag, tx.Cycles, tx.Fee, event.Balance)
			}
			if len(events) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("no stored transactions reference this account"))
			}
			return nil
		},
	}
	return cmd
}
