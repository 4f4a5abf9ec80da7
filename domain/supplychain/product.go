package supplychain

import "time"

// Product is a registered good and its custody history.
type Product struct {
	ID           uint64
	Name         string
	Type         string
	CurrentStage Stage
	History      []HistoryEntry
}

// HistoryEntry records one custody step of a product.
type HistoryEntry struct {
	Stage      Stage
	Entity     string
	Timestamp  time.Time
	Successful bool
}

// Completed reports whether the product reached the customer.
func (p Product) Completed() bool {
	return p.CurrentStage == Customer
}

// Manufacturer returns the entity that registered the product.
func (p Product) Manufacturer() string {
	if len(p.History) == 0 {
		return ""
	}
	return p.History[0].Entity
}

func (p Product) copy() Product {
	history := make([]HistoryEntry, len(p.History))
	copy(history, p.History)
	p.History = history
	return p
}

// CreateRequest holds the input needed to register a product.
type CreateRequest struct {
	Name         string `validate:"required"`
	Manufacturer string `validate:"required"`
	Type         string
}

// ProcessRequest holds the input needed to move a product to its next stage.
type ProcessRequest struct {
	ProductID  uint64 `validate:"required"`
	Stage      string `validate:"required,stage"`
	Entity     string `validate:"required"`
	Successful bool
}
