package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when the chain is used before Init.
	ErrNotInitialized = errors.New("blockchain is not initialized")
	// ErrAlreadyInitialized is returned when Init is called twice.
	ErrAlreadyInitialized = errors.New("blockchain is already initialized")
	// ErrNilPayload is returned when Append is called without a payload.
	ErrNilPayload = errors.New("payload is nil")
	// ErrIndexOutOfRange is returned by GetByIndex for positions outside the chain.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrHashing wraps every failure to compute a content hash.
	ErrHashing = errors.New("could not compute content hash")
	// ErrIntegrity is matched by every IntegrityError.
	ErrIntegrity = errors.New("chain integrity violated")
)

// Fault describes which check an integrity violation failed.
type Fault string

const (
	FaultGenesisLink Fault = "genesis previous hash is not the sentinel"
	FaultContentHash Fault = "stored hash does not match block contents"
	FaultLink        Fault = "previous hash does not match predecessor"
	FaultUnhashable  Fault = "block contents cannot be hashed"
)

// IntegrityError reports a single violated invariant at a position of the chain.
type IntegrityError struct {
	Index    int
	Reason   Fault
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("block %d invalid: %s: expected %s, got %s", e.Index, e.Reason, e.Expected, e.Actual)
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}
