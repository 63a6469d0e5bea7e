package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Psychedelic/xtc-audit/internal/services/reconciler"
	"github.com/Psychedelic/xtc-audit/internal/services/replay"
	"github.com/Psychedelic/xtc-audit/internal/source"
	"github.com/Psychedelic/xtc-audit/internal/storage/auditlog"
	"github.com/Psychedelic/xtc-audit/internal/storage/history"
	"github.com/Psychedelic/xtc-audit/internal/storage/snapshot"
)

// ErrDiscrepancies is returned (exit status 1) when verification finds
// mismatches that survive a live refresh.
var ErrDiscrepancies = errors.New("balance discrepancies found, rerun sync and verify")

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Reconcile replayed balances against live balances",
		Long: `Verify replays the stored history, compares every account against the
cached live balances, refreshes exactly the disputed accounts from the
gateway, and compares once more. Mismatches that survive the refresh are
genuine discrepancies.

Exit codes:
  0 - all balances verified
  1 - discrepancies found`,
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
			cache, err := snapshot.NewCache(conf.SnapshotDir, logger)
			if err != nil {
				return err
			}
			journal, err := auditlog.NewWALStore(conf.AuditLogDir)
			if err != nil {
				return err
			}
			defer journal.Close()

			src := source.NewGatewayClient(conf.GatewayURL, conf.RequestTimeout)
			engine := replay.NewEngine(store, conf.DebitPolicy)

			report, err := reconciler.New(engine, cache, src, journal, logger).Verify(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("verify run %s", report.RunID)))
			fmt.Fprintf(out, "%d accounts, %d refreshed\n", report.Accounts, report.Refreshed)

			if report.Verified {
				fmt.Fprintln(out, okStyle.Render("all balances verified based on backup"))
				return nil
			}

			for _, id := range report.Mismatches {
				fmt.Fprintln(out, failStyle.Render(id.Text()))
			}
			fmt.Fprintln(out, failStyle.Render(fmt.Sprintf("%d balances did not match", len(report.Mismatches))))
			return ErrDiscrepancies
		},
	}
	return cmd
}
