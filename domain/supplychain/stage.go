package supplychain

import (
	"fmt"
)

// Stage is a custody step of the supply chain.
type Stage string

const (
	Manufacturer Stage = "manufacturer"
	Distributor  Stage = "distributor"
	Retailer     Stage = "retailer"
	Customer     Stage = "customer"
)

var stages = []Stage{Manufacturer, Distributor, Retailer, Customer}

var titles = map[Stage]string{
	Manufacturer: "Manufacturer",
	Distributor:  "Distributor",
	Retailer:     "Retailer",
	Customer:     "Customer",
}

// Stages returns all stages in custody order.
func Stages() []Stage {
	dup := make([]Stage, len(stages))
	copy(dup, stages)
	return dup
}

// ParseStage converts the lowercase stage name into a Stage.
func ParseStage(name string) (Stage, error) {
	s := Stage(name)
	if s.Index() < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownStage, name)
	}
	return s, nil
}

// Index returns the position of the stage in custody order, or -1 if the
// stage is unknown.
func (s Stage) Index() int {
	for i, stage := range stages {
		if stage == s {
			return i
		}
	}
	return -1
}

// Next returns the stage following s. The second value is false for the
// customer stage and for unknown stages.
func (s Stage) Next() (Stage, bool) {
	i := s.Index()
	if i < 0 || i == len(stages)-1 {
		return "", false
	}
	return stages[i+1], true
}

// Title is the display name of the stage.
func (s Stage) Title() string {
	title, ok := titles[s]
	if !ok {
		return string(s)
	}
	return title
}

func (s Stage) String() string {
	return string(s)
}
