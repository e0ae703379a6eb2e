package coordinator

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// SubmissionCache retains the plaintext (income, deductions) pair from the
// most recent successful submission, for display only. The on-chain
// commitments cannot be opened, so without this cache the view operation
// degrades to reporting completion without a breakdown. The cache is
// advisory and is never consulted for lifecycle decisions.
type SubmissionCache interface {
	// Save overwrites the account's cached pair wholesale.
	Save(ctx context.Context, account common.Address, income, deductions int64) error
	// Get returns the cached pair; ok is false on a miss. A miss is the
	// documented degraded mode, not an error.
	Get(ctx context.Context, account common.Address) (income, deductions int64, ok bool, err error)
}

// MemoryCache is the process-local SubmissionCache used in memory ledger
// mode and in tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[common.Address][2]int64
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[common.Address][2]int64)}
}

// Save overwrites the account's cached pair.
func (c *MemoryCache) Save(ctx context.Context, account common.Address, income, deductions int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[account] = [2]int64{income, deductions}
	return nil
}

// Get returns the cached pair for the account.
func (c *MemoryCache) Get(ctx context.Context, account common.Address) (int64, int64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[account]
	if !ok {
		return 0, 0, false, nil
	}
	return entry[0], entry[1], true, nil
}
