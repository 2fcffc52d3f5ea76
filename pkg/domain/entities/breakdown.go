package entities

// CycleRecipeName marks a node whose product is already being expanded higher up the same path
const CycleRecipeName = "Cycle"

// BreakdownNode is one step of a production tree. RecipeName, Machine and MachinesNeeded
// are nil for raw resources and unresolved demands; a cycle node carries only RecipeName.
type BreakdownNode struct {
	Product        ItemName        `json:"product"`
	Rate           float64         `json:"rate"`
	RecipeName     *string         `json:"recipe_name,omitempty"`
	Machine        *MachineName    `json:"machine,omitempty"`
	MachinesNeeded *float64        `json:"machines_needed,omitempty"`
	Children       []BreakdownNode `json:"children,omitempty"`
}

// IsCycle reports whether the node terminates a back-edge
func (n *BreakdownNode) IsCycle() bool {
	return n.RecipeName != nil && *n.RecipeName == CycleRecipeName && n.Machine == nil
}

// IsTerminal reports whether the node was not expanded through a recipe
func (n *BreakdownNode) IsTerminal() bool {
	return n.Machine == nil
}

// PlanResult contains the complete output of a planning run
type PlanResult struct {
	Forest          []BreakdownNode         `json:"forest"`
	RawResources    map[ItemName]float64    `json:"raw_resources"`
	Machines        map[MachineName]float64 `json:"machines"`
	CycleNodes      int                     `json:"cycle_nodes"`
	UnresolvedNodes int                     `json:"unresolved_nodes"`
}
