package entities

import "fmt"

// ItemName represents a unique, case-sensitive item identifier
type ItemName string

// MachineName represents a unique crafting machine identifier
type MachineName string

// ItemStack represents a whole-number quantity of an item consumed or produced per craft cycle
type ItemStack struct {
	Item     ItemName `json:"item" validate:"required"`
	Quantity uint32   `json:"quantity" validate:"gt=0"`
}

// NewItemStack creates a validated ItemStack
func NewItemStack(item ItemName, quantity uint32) (*ItemStack, error) {
	if item == "" {
		return nil, fmt.Errorf("item name cannot be empty")
	}
	if quantity == 0 {
		return nil, fmt.Errorf("quantity must be positive for item %s", item)
	}
	return &ItemStack{Item: item, Quantity: quantity}, nil
}

func (s ItemStack) String() string {
	return fmt.Sprintf("%s x%d", s.Item, s.Quantity)
}

// Machine represents the building a recipe runs on
type Machine struct {
	Name MachineName `json:"name"`
}

// MachinePowerMap holds the power draw of each machine in megawatts
type MachinePowerMap map[MachineName]float64

// Draw returns the power draw for a machine, zero if it is not listed
func (m MachinePowerMap) Draw(name MachineName) float64 {
	if m == nil {
		return 0
	}
	return m[name]
}
