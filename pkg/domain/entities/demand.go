package entities

import (
	"fmt"
	"math"
)

// DefaultDemandRate is the rate given to a product added without an explicit rate
const DefaultDemandRate = 60.0

// Demand represents a requested output rate for a product, in items per minute
type Demand struct {
	Product ItemName `json:"product"`
	Rate    float64  `json:"rate"`
}

// NewDemand creates a validated Demand
func NewDemand(product ItemName, rate float64) (*Demand, error) {
	if product == "" {
		return nil, fmt.Errorf("%w: product cannot be empty", ErrInvalidDemand)
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return nil, fmt.Errorf("%w: rate for %s must be a non-negative number, got %v", ErrInvalidDemand, product, rate)
	}
	return &Demand{Product: product, Rate: rate}, nil
}

// DemandList is an ordered list of requested outputs
type DemandList []Demand

// Add appends a product at the default rate unless it is already requested
func (l DemandList) Add(product ItemName) DemandList {
	for _, d := range l {
		if d.Product == product {
			return l
		}
	}
	return append(l, Demand{Product: product, Rate: DefaultDemandRate})
}

// Products returns the set of requested products
func (l DemandList) Products() map[ItemName]bool {
	set := make(map[ItemName]bool, len(l))
	for _, d := range l {
		set[d.Product] = true
	}
	return set
}
