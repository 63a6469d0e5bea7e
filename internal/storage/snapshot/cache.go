// Package snapshot caches the live balances observed for accounts, persisted
// as a single balances.json mapping principal text to a tagged big-int
// balance. The cache grows monotonically; refreshing an account overwrites
// its stale entry.
package snapshot

import (
	"context"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Psychedelic/xtc-audit/internal/domain"
)

const balancesFile = "balances.json"

// BalanceFetcher fetches one live balance. Satisfied by source.HistorySource.
type BalanceFetcher interface {
	Balance(ctx context.Context, id *domain.Identity) (*big.Int, error)
}

// Cache is the durable balance snapshot. It is single-writer within a run,
// matching the engine's concurrency model, so it carries no lock.
type Cache struct {
	path     string
	balances map[string]string
	logger   *zap.Logger
}

// NewCache opens the snapshot under dir, loading the persisted mapping if
// one exists.
func NewCache(dir string, logger *zap.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create snapshot dir")
	}

	c := &Cache{
		path:     filepath.Join(dir, balancesFile),
		balances: make(map[string]string),
		logger:   logger,
	}

	payload, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, errors.Wrap(err, "read balance snapshot")
	}
	if err := json.Unmarshal(payload, &c.balances); err != nil {
		return nil, errors.Wrap(err, "decode balance snapshot")
	}
	return c, nil
}

// Get returns the cached balance for id without refreshing. The second
// result is false when the account has never been checked.
func (c *Cache) Get(id domain.Identity) (*big.Int, bool, error) {
	text, ok := c.balances[id.Text()]
	if !ok {
		return nil, false, nil
	}
	balance, err := domain.ParseAmount(text)
	if err != nil {
		return nil, false, errors.Wrapf(err, "snapshot entry for %s", id)
	}
	return balance, true, nil
}

// Len returns the number of accounts ever checked.
func (c *Cache) Len() int {
	return len(c.balances)
}

// Refresh fetches live balances for the given accounts, persisting the
// snapshot after every single update so an interrupted refresh loses at
// most the one in-flight fetch. The first fetch or persist failure aborts
// the refresh; everything fetched before it is already on disk.
func (c *Cache) Refresh(ctx context.Context, fetcher BalanceFetcher, ids []domain.Identity) error {
	for n, id := range ids {
		id := id
		balance, err := fetcher.Balance(ctx, &id)
		if err != nil {
			return errors.Wrapf(err, "fetch balance for %s", id)
		}

		c.balances[id.Text()] = domain.FormatAmount(balance)
		if err := c.persist(); err != nil {
			return err
		}

		c.logger.Info("checked balance",
			zap.String("account", id.Text()),
			zap.Int("done", n+1),
			zap.Int("total", len(ids)))
	}
	return nil
}

func (c *Cache) persist() error {
	payload, err := json.MarshalIndent(c.balances, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode balance snapshot")
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errors.Wrap(err, "write balance snapshot temp file")
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return errors.Wrap(err, "persist balance snapshot")
	}
	return nil
}
