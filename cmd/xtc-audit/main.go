// Command xtc-audit is a read-only auditor for the XTC cycles ledger. It
// backs up the remote transaction history into a local file-per-index
// store, replays that history into per-account balances, and verifies them
// against live balances fetched from the gateway.
//
// Usage:
//
//	xtc-audit sync            back up the remote history
//	xtc-audit replay          print replayed balances
//	xtc-audit verify          reconcile replayed vs live balances
//	xtc-audit check           sanity-check remote counters
//	xtc-audit whales          largest accounts by balance
//	xtc-audit history <id>    transactions touching one account
package main

import (
	"os"

	"github.com/Psychedelic/xtc-audit/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
