package hashledger

import (
	"fmt"
	"slices"
	"sync"

	"github.com/etnz/hashledger/date"
	"github.com/shopspring/decimal"
)

// HashChain is an append-only list of blocks where each block commits to
// the digest of its predecessor.
//
// A HashChain is never empty: it starts with a genesis block. Appends are
// serialized, reads see a consistent snapshot.
type HashChain struct {
	mu       sync.RWMutex
	currency string
	scheme   Scheme
	blocks   []Block
}

// NewHashChain creates a chain holding only the genesis block, dated on the
// day of creation.
func NewHashChain(opts ...Option) *HashChain {
	s := newSettings(opts)
	genesis := Block{
		Index:       0,
		Date:        date.On(s.now()),
		Description: GenesisDescription,
		Kind:        Income,
		Amount:      decimal.Zero,
		PrevHash:    GenesisPrevHash,
	}
	genesis.Hash = genesis.Digest(s.scheme)

	return &HashChain{
		currency: s.currency,
		scheme:   s.scheme,
		blocks:   []Block{genesis},
	}
}

// Restore rebuilds a chain from blocks as they were exported. Nothing is
// recomputed nor validated: use Verify to check the restored chain.
func Restore(blocks []Block, opts ...Option) (*HashChain, error) {
	if len(blocks) == 0 {
		return nil, ErrEmptyChain
	}
	s := newSettings(opts)
	return &HashChain{
		currency: s.currency,
		scheme:   s.scheme,
		blocks:   slices.Clone(blocks),
	}, nil
}

// Currency returns the currency used in summaries.
func (c *HashChain) Currency() string { return c.currency }

// Scheme returns the digest scheme of the chain.
func (c *HashChain) Scheme() Scheme { return c.scheme }

// Append validates a transaction, links it to the tail of the chain and
// returns the new block. An invalid transaction leaves the chain unchanged.
func (c *HashChain) Append(on date.Date, description string, kind Kind, amount decimal.Decimal) (Block, error) {
	return c.AppendTransaction(NewTransaction(on, description, kind, amount))
}

// AppendTransaction is like Append for an already built transaction.
func (c *HashChain) AppendTransaction(tx Transaction) (Block, error) {
	if err := tx.Validate(); err != nil {
		return Block{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	latest := c.blocks[len(c.blocks)-1]
	b := Block{
		Index:       latest.Index + 1,
		Date:        tx.Date,
		Description: tx.Description,
		Kind:        tx.Kind,
		Amount:      tx.Amount,
		PrevHash:    latest.Hash,
	}
	b.Hash = b.Digest(c.scheme)

	c.blocks = append(c.blocks, b)
	return b, nil
}

// Blocks returns a copy of all blocks, genesis included, in index order.
func (c *HashChain) Blocks() []Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.blocks)
}

// Latest returns the tail of the chain.
func (c *HashChain) Latest() Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[len(c.blocks)-1]
}

// Block returns the block at position i.
func (c *HashChain) Block(i int) (Block, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.blocks) {
		return Block{}, fmt.Errorf("index %d out of range [0, %d)", i, len(c.blocks))
	}
	return c.blocks[i], nil
}

// Len returns the number of blocks, genesis included.
func (c *HashChain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// Transactions returns the transactions recorded after the genesis block.
func (c *HashChain) Transactions() []Transaction {
	c.mu.RLock()
	defer c.mu.RUnlock()
	txs := make([]Transaction, 0, len(c.blocks)-1)
	for _, b := range c.blocks[1:] {
		txs = append(txs, b.Transaction())
	}
	return txs
}

// Summarize aggregates all blocks but the genesis one.
func (c *HashChain) Summarize() Summary {
	return summarize(c.currency, c.Transactions())
}

// Ledger returns a flat Ledger holding the chain transactions, genesis excluded.
func (c *HashChain) Ledger() *Ledger {
	l := NewLedger(WithCurrency(c.currency))
	for _, tx := range c.Transactions() {
		// blocks were validated when appended, a tampered one is still listed.
		l.transactions = append(l.transactions, tx)
		l.add(tx)
	}
	return l
}

// Verify walks the chain and reports whether it is intact. When it is not,
// index is the position of the first block that fails; otherwise it is -1.
func (c *HashChain) Verify() (ok bool, index int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, found := c.check(true); found {
		return false, v[0].Index
	}
	return true, -1
}

// Audit is like Verify but keeps walking after a failure and returns every
// violation found, in chain order.
func (c *HashChain) Audit() []Violation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, _ := c.check(false)
	return v
}

// check must be called with the lock held.
func (c *HashChain) check(firstOnly bool) (violations []Violation, found bool) {
	report := func(v Violation) bool {
		violations = append(violations, v)
		return firstOnly
	}

	genesis := c.blocks[0]
	if v, bad := checkGenesis(genesis, c.scheme); bad && report(v) {
		return violations, true
	}
	for i := 1; i < len(c.blocks); i++ {
		if v, bad := checkBlock(i, c.blocks[i], c.blocks[i-1], c.scheme); bad && report(v) {
			return violations, true
		}
	}
	return violations, len(violations) > 0
}

// ExportCSV serializes all blocks, genesis included, as CSV with a header row.
func (c *HashChain) ExportCSV() ([]byte, error) {
	return encodeChainCSV(c.Blocks())
}
