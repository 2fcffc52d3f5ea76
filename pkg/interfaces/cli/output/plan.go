package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vsinha/factoryplan/pkg/application/services/breakdown"
	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

// BreakdownRow is the display form of one production tree node
type BreakdownRow struct {
	Depth    int    `json:"depth"`
	Product  string `json:"product"`
	Rate     string `json:"rate"`
	Recipe   string `json:"recipe"`
	Machine  string `json:"machine"`
	Machines string `json:"machines"`
}

// BreakdownRows flattens a forest into display rows. Raw resources show
// RawResourceLabel as their recipe; unresolved products show Placeholder.
func BreakdownRows(forest []entities.BreakdownNode, raw *entities.RawResourceTable) []BreakdownRow {
	flat := breakdown.Flatten(forest)
	rows := make([]BreakdownRow, 0, len(flat))
	for _, r := range flat {
		node := r.Node
		row := BreakdownRow{
			Depth:    r.Depth,
			Product:  string(node.Product),
			Rate:     Amount(node.Rate),
			Recipe:   Placeholder,
			Machine:  Placeholder,
			Machines: Placeholder,
		}
		switch {
		case node.RecipeName != nil:
			row.Recipe = *node.RecipeName
		case raw.IsRaw(node.Product):
			row.Recipe = RawResourceLabel
		}
		if node.Machine != nil {
			row.Machine = string(*node.Machine)
		}
		if node.MachinesNeeded != nil {
			row.Machines = Amount(*node.MachinesNeeded)
		}
		rows = append(rows, row)
	}
	return rows
}

// planReport is the JSON document produced for a plan
type planReport struct {
	Forest          []entities.BreakdownNode `json:"forest"`
	RawResources    []breakdown.Total        `json:"raw_resources"`
	Machines        []breakdown.Total        `json:"machines"`
	CycleNodes      int                      `json:"cycle_nodes"`
	UnresolvedNodes int                      `json:"unresolved_nodes"`
}

// GeneratePlan writes the production breakdown and its summaries in the configured format
func GeneratePlan(stdout io.Writer, result *entities.PlanResult, raw *entities.RawResourceTable, config Config) error {
	switch config.Format {
	case FormatText:
		return emit(stdout, config, "plan", func(w io.Writer) error {
			if err := WriteBreakdownText(w, BreakdownRows(result.Forest, raw)); err != nil {
				return err
			}
			return WriteSummaryText(w, result)
		})
	case FormatJSON:
		return emit(stdout, config, "plan", func(w io.Writer) error {
			return writeJSON(w, planReport{
				Forest:          result.Forest,
				RawResources:    breakdown.SortedTotals(result.RawResources),
				Machines:        breakdown.SortedTotals(result.Machines),
				CycleNodes:      result.CycleNodes,
				UnresolvedNodes: result.UnresolvedNodes,
			})
		})
	case FormatCSV:
		if err := emit(stdout, config, "breakdown", func(w io.Writer) error {
			return WriteBreakdownCSV(w, BreakdownRows(result.Forest, raw))
		}); err != nil {
			return err
		}
		if config.OutputDir == "" {
			fmt.Fprintln(stdout)
		}
		return emit(stdout, config, "totals", func(w io.Writer) error {
			return WriteTotalsCSV(w, result)
		})
	default:
		return ValidateFormat(config.Format)
	}
}

// WriteBreakdownText prints the forest with children indented under their parent
func WriteBreakdownText(w io.Writer, rows []BreakdownRow) error {
	fmt.Fprintf(w, "🏭 Production Breakdown\n\n")
	fmt.Fprintf(w, "%-44s %-12s %-36s %-24s %-10s\n", "Product", "Rate/min", "Recipe", "Machine", "Machines")
	fmt.Fprintf(w, "%-44s %-12s %-36s %-24s %-10s\n", rule(44, 12, 36, 24, 10)...)

	for _, row := range rows {
		fmt.Fprintf(w, "%-44s %-12s %-36s %-24s %-10s\n",
			indent(row.Depth)+row.Product,
			row.Rate,
			row.Recipe,
			row.Machine,
			row.Machines)
	}
	_, err := fmt.Fprintln(w)
	return err
}

// WriteSummaryText prints raw resource and machine totals
func WriteSummaryText(w io.Writer, result *entities.PlanResult) error {
	fmt.Fprintf(w, "⛏️  Raw Resources:\n")
	fmt.Fprintf(w, "%-40s %-12s\n", "Resource", "Rate/min")
	fmt.Fprintf(w, "%-40s %-12s\n", rule(40, 12)...)
	for _, total := range breakdown.SortedTotals(result.RawResources) {
		fmt.Fprintf(w, "%-40s %-12s\n", total.Name, Amount(total.Amount))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "🏗️  Machines:\n")
	fmt.Fprintf(w, "%-40s %-12s\n", "Machine", "Count")
	fmt.Fprintf(w, "%-40s %-12s\n", rule(40, 12)...)
	for _, total := range breakdown.SortedTotals(result.Machines) {
		fmt.Fprintf(w, "%-40s %-12s\n", total.Name, Amount(total.Amount))
	}
	fmt.Fprintln(w)

	if result.CycleNodes > 0 || result.UnresolvedNodes > 0 {
		fmt.Fprintf(w, "⚠️  Cycle leaves: %d, unresolved leaves: %d\n\n", result.CycleNodes, result.UnresolvedNodes)
	}
	return nil
}

// WriteBreakdownCSV writes one record per tree node in pre-order
func WriteBreakdownCSV(w io.Writer, rows []BreakdownRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"depth", "product", "rate", "recipe", "machine", "machines"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Depth),
			row.Product,
			row.Rate,
			row.Recipe,
			row.Machine,
			row.Machines,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", row.Product, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTotalsCSV writes raw resource and machine totals tagged by kind
func WriteTotalsCSV(w io.Writer, result *entities.PlanResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"kind", "name", "amount"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, total := range breakdown.SortedTotals(result.RawResources) {
		if err := writer.Write([]string{"raw_resource", total.Name, Amount(total.Amount)}); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", total.Name, err)
		}
	}
	for _, total := range breakdown.SortedTotals(result.Machines) {
		if err := writer.Write([]string{"machine", total.Name, Amount(total.Amount)}); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", total.Name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
