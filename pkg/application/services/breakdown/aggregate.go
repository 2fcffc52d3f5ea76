package breakdown

import (
	"sort"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

// Total is one named aggregate amount
type Total struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// RawResourceTotals sums the rate of every node without a machine, keyed by product.
// Cycle and unresolved leaves count alongside true raw resources.
func RawResourceTotals(forest []entities.BreakdownNode) map[entities.ItemName]float64 {
	totals := make(map[entities.ItemName]float64)
	Walk(forest, func(_ int, node *entities.BreakdownNode) {
		if node.Machine == nil {
			totals[node.Product] += node.Rate
		}
	})
	return totals
}

// MachineTotals sums the fractional machine counts of every expanded node, keyed by machine
func MachineTotals(forest []entities.BreakdownNode) map[entities.MachineName]float64 {
	totals := make(map[entities.MachineName]float64)
	Walk(forest, func(_ int, node *entities.BreakdownNode) {
		if node.Machine != nil && node.MachinesNeeded != nil {
			totals[*node.Machine] += *node.MachinesNeeded
		}
	})
	return totals
}

// SortedTotals returns totals ordered by name
func SortedTotals[K ~string](totals map[K]float64) []Total {
	rows := make([]Total, 0, len(totals))
	for name, amount := range totals {
		rows = append(rows, Total{Name: string(name), Amount: amount})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// CountLeaves counts cycle leaves and unresolved leaves. A terminal node that is
// neither a cycle nor a raw resource is unresolved.
func CountLeaves(forest []entities.BreakdownNode, raw *entities.RawResourceTable) (cycles, unresolved int) {
	Walk(forest, func(_ int, node *entities.BreakdownNode) {
		switch {
		case node.IsCycle():
			cycles++
		case node.IsTerminal() && !raw.IsRaw(node.Product):
			unresolved++
		}
	})
	return cycles, unresolved
}

// Summarize aggregates a forest into a PlanResult
func Summarize(forest []entities.BreakdownNode, raw *entities.RawResourceTable) *entities.PlanResult {
	cycles, unresolved := CountLeaves(forest, raw)
	return &entities.PlanResult{
		Forest:          forest,
		RawResources:    RawResourceTotals(forest),
		Machines:        MachineTotals(forest),
		CycleNodes:      cycles,
		UnresolvedNodes: unresolved,
	}
}
