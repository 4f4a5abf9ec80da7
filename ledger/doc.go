// Package ledger implements an append-only, tamper-evident ledger for recording
// custody events of products moving through the supply chain.
//
// # Core Components
//
// Blockchain: An in-process, hash-linked sequence of blocks. It creates the
// genesis block, appends new blocks after the current tail and verifies the
// integrity of the whole chain.
//
// Block: An immutable record holding a creation timestamp, a payload, the hash
// of the preceding block and its own content hash.
//
// Payload: A closed set of event kinds (genesis, product created, product
// processed, generic event). Payloads are serialized with CBOR Core
// Deterministic Encoding so structurally equal payloads always hash the same.
//
// # Security Properties
//
// The chain provides:
//   - Append-only history: blocks are never mutated or removed by the ledger
//   - Tamper detection: altering a block's contents breaks its content hash
//   - Link detection: removing, reordering or reattaching a block breaks the
//     previous-hash linkage
//
// # Usage
//
// Create a blockchain with NewBlockchain, record events with Append and call
// IsChainValid (or Verify, for a detailed report) whenever the integrity status
// has to be surfaced. All methods are safe for concurrent use; appends are
// serialized so the chain always stays linear.
package ledger
