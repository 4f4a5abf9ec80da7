package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Blockchain is an append-only sequence of hash-linked blocks. The zero value
// is an uninitialized chain; call Init (or use NewBlockchain) before use.
type Blockchain struct {
	mu     sync.RWMutex
	cfg    settings
	blocks []Block
}

// New returns an uninitialized blockchain configured with the given options.
func New(opts ...option) *Blockchain {
	cfg := defaultSettings()
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	return &Blockchain{cfg: cfg}
}

// NewBlockchain creates a blockchain and initializes it with its genesis block.
func NewBlockchain(ctx context.Context, opts ...option) (*Blockchain, error) {
	bc := New(opts...)
	err := bc.Init(ctx)
	if err != nil {
		return nil, err
	}
	return bc, nil
}

// Init creates the genesis block, whose previous hash is "0", and makes it
// the only block of the chain. It must complete before any other operation.
func (bc *Blockchain) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bc.mu.Lock()
	defer bc.mu.Unlock()

	if len(bc.blocks) > 0 {
		return ErrAlreadyInitialized
	}
	bc.cfg = bc.cfg.withDefaults()

	genesis, err := newBlock(bc.cfg.now(), Genesis{Message: bc.cfg.genesisMessage}, GenesisPreviousHash)
	if err != nil {
		return fmt.Errorf("could not create genesis block: %w", err)
	}
	bc.blocks = []Block{genesis}

	bc.cfg.log.Debug("genesis block created", "hash", genesis.Hash)

	return nil
}

// Append links a new block carrying payload after the current tail and
// returns it. Reading the tail, hashing and pushing happen under one lock, so
// two appends can never observe the same tail.
func (bc *Blockchain) Append(ctx context.Context, payload Payload) (Block, error) {
	if payload == nil {
		return Block{}, ErrNilPayload
	}
	if err := ctx.Err(); err != nil {
		return Block{}, err
	}

	bc.mu.Lock()
	defer bc.mu.Unlock()

	if len(bc.blocks) == 0 {
		return Block{}, ErrNotInitialized
	}
	latest := bc.blocks[len(bc.blocks)-1]

	block, err := newBlock(bc.cfg.now(), payload, latest.Hash)
	if err != nil {
		return Block{}, fmt.Errorf("could not create block %d: %w", len(bc.blocks), err)
	}
	bc.blocks = append(bc.blocks, block)

	bc.cfg.log.Debug("block appended",
		"index", len(bc.blocks)-1,
		"kind", string(payload.Kind()),
		"hash", block.Hash,
	)

	return block.copy(), nil
}

// GetLatest returns the most recently added block in the blockchain.
func (bc *Blockchain) GetLatest() (Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if len(bc.blocks) == 0 {
		return Block{}, ErrNotInitialized
	}

	return bc.blocks[len(bc.blocks)-1].copy(), nil
}

// GetByIndex retrieves a block by its position in the chain; 0 is genesis.
func (bc *Blockchain) GetByIndex(index int) (Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if index < 0 || index >= len(bc.blocks) {
		return Block{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(bc.blocks))
	}

	return bc.blocks[index].copy(), nil
}

// Blocks returns copies of all blocks in chain order.
func (bc *Blockchain) Blocks() []Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	blocks := make([]Block, 0, len(bc.blocks))
	for _, b := range bc.blocks {
		blocks = append(blocks, b.copy())
	}
	return blocks
}

// Len returns the number of blocks, genesis included.
func (bc *Blockchain) Len() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return len(bc.blocks)
}

// IsChainValid reports whether every block after genesis still matches its
// content hash and links to the hash of its predecessor. It stops at the first
// violation. An uninitialized chain is never valid.
func (bc *Blockchain) IsChainValid() bool {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if len(bc.blocks) == 0 {
		return false
	}

	for i := 1; i < len(bc.blocks); i++ {
		current := bc.blocks[i]
		previous := bc.blocks[i-1]

		recalculated, err := current.CalculateHash()
		if err != nil || current.Hash != recalculated {
			bc.cfg.log.Warn("content hash mismatch", "index", i)
			return false
		}

		if current.PreviousHash != previous.Hash {
			bc.cfg.log.Warn("broken link", "index", i)
			return false
		}
	}

	return true
}

// Verify audits the entire chain and returns every violation found, each as
// an *IntegrityError, aggregated in a multierror. Unlike IsChainValid it also
// checks the genesis block and does not stop at the first fault.
func (bc *Blockchain) Verify() error {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if len(bc.blocks) == 0 {
		return ErrNotInitialized
	}

	var merr *multierror.Error

	genesis := bc.blocks[0]
	if genesis.PreviousHash != GenesisPreviousHash {
		merr = multierror.Append(merr, &IntegrityError{
			Index:    0,
			Reason:   FaultGenesisLink,
			Expected: GenesisPreviousHash,
			Actual:   genesis.PreviousHash,
		})
	}

	for i, current := range bc.blocks {
		recalculated, err := current.CalculateHash()
		if err != nil {
			merr = multierror.Append(merr, &IntegrityError{
				Index:    i,
				Reason:   FaultUnhashable,
				Expected: current.Hash,
				Actual:   err.Error(),
			})
		} else if current.Hash != recalculated {
			merr = multierror.Append(merr, &IntegrityError{
				Index:    i,
				Reason:   FaultContentHash,
				Expected: recalculated,
				Actual:   current.Hash,
			})
		}

		if i == 0 {
			continue
		}
		previous := bc.blocks[i-1]
		if current.PreviousHash != previous.Hash {
			merr = multierror.Append(merr, &IntegrityError{
				Index:    i,
				Reason:   FaultLink,
				Expected: previous.Hash,
				Actual:   current.PreviousHash,
			})
		}
	}

	if merr != nil {
		bc.cfg.log.Warn("chain integrity violated", "faults", len(merr.Errors))
	}

	return merr.ErrorOrNil()
}
