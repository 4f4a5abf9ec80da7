package supplychain

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrUnknownStage       = errors.New("unknown stage")
	ErrProductNotFound    = errors.New("product not found")
	ErrBackwardTransition = errors.New("product cannot move backwards in the supply chain")
	ErrSkippedStage       = errors.New("product can only advance one stage at a time")
	ErrNotRecorded        = errors.New("event could not be recorded in the ledger")
)
