package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// GenesisPreviousHash is the previous hash stored in the genesis block.
const GenesisPreviousHash = "0"

// Block is a single entry of the chain. A block is only ever exposed once its
// Hash is populated.
type Block struct {
	Timestamp    time.Time `json:"timestamp"`
	Payload      Payload   `json:"payload"`
	PreviousHash string    `json:"previousHash"`
	Hash         string    `json:"hash"`
}

// newBlock captures the timestamp, links the block to previousHash and freezes
// its content hash.
func newBlock(now time.Time, payload Payload, previousHash string) (Block, error) {
	if event, ok := payload.(Event); ok {
		detached, err := event.detach()
		if err != nil {
			return Block{}, fmt.Errorf("%w: could not encode payload: %w", ErrHashing, err)
		}
		payload = detached
	}
	b := Block{
		Timestamp:    now.UTC(),
		Payload:      payload.clone(),
		PreviousHash: previousHash,
	}
	hash, err := b.CalculateHash()
	if err != nil {
		return Block{}, err
	}
	b.Hash = hash
	return b, nil
}

// CalculateHash recomputes the content hash from the stored timestamp, payload
// and previous hash. It does not look at the stored Hash.
func (b Block) CalculateHash() (string, error) {
	return ContentHash(b.Timestamp, b.Payload, b.PreviousHash)
}

// copy returns a block that shares no mutable state with b.
func (b Block) copy() Block {
	if b.Payload != nil {
		b.Payload = b.Payload.clone()
	}
	return b
}

// ContentHash computes the SHA-256 of the RFC 3339 timestamp, the canonical
// payload encoding and the previous hash, concatenated in that order, and
// returns it as 64 lowercase hex characters.
func ContentHash(timestamp time.Time, payload Payload, previousHash string) (string, error) {
	data, err := EncodePayload(payload)
	if err != nil {
		return "", fmt.Errorf("%w: could not encode payload: %w", ErrHashing, err)
	}

	h := sha256.New()
	h.Write([]byte(timestamp.UTC().Format(time.RFC3339Nano)))
	h.Write(data)
	h.Write([]byte(previousHash))

	return hex.EncodeToString(h.Sum(nil)), nil
}
