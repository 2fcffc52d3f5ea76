package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

// SortKey selects the column an analysis table is ordered by
type SortKey string

const (
	SortByItem  SortKey = "item"
	SortByWP    SortKey = "wp"
	SortByPower SortKey = "power"
)

// ParseSortKey converts a column name to a SortKey
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(s); key {
	case SortByItem, SortByWP, SortByPower:
		return key, nil
	case "":
		return SortByItem, nil
	default:
		return "", fmt.Errorf("invalid sort key: %s (expected: item, wp or power)", s)
	}
}

// ItemRow is one line of the item analysis table
type ItemRow struct {
	Item entities.ItemName `json:"item"`
	*entities.ItemAnalysis
}

// SortAnalysis orders the analysis map by key. Equal values fall back to item name
// so the order is deterministic.
func SortAnalysis(items entities.AnalysisMap, key SortKey, descending bool) []ItemRow {
	rows := make([]ItemRow, 0, len(items))
	for name, analysis := range items {
		rows = append(rows, ItemRow{Item: name, ItemAnalysis: analysis})
	}

	value := func(r ItemRow) float64 {
		switch key {
		case SortByWP:
			return r.WP
		case SortByPower:
			return r.Power
		}
		return 0
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if key != SortByItem {
			if va, vb := value(a), value(b); va != vb {
				if descending {
					return va > vb
				}
				return va < vb
			}
		} else if descending {
			return a.Item > b.Item
		}
		return a.Item < b.Item
	})
	return rows
}

// GenerateAnalysis writes the item analysis table in the configured format
func GenerateAnalysis(stdout io.Writer, rows []ItemRow, config Config) error {
	switch config.Format {
	case FormatText:
		return emit(stdout, config, "analysis", func(w io.Writer) error {
			return WriteAnalysisText(w, rows)
		})
	case FormatJSON:
		return emit(stdout, config, "analysis", func(w io.Writer) error {
			return writeJSON(w, rows)
		})
	case FormatCSV:
		return emit(stdout, config, "analysis", func(w io.Writer) error {
			return WriteAnalysisCSV(w, rows)
		})
	default:
		return ValidateFormat(config.Format)
	}
}

// WriteAnalysisText prints the item analysis as an aligned table
func WriteAnalysisText(w io.Writer, rows []ItemRow) error {
	fmt.Fprintf(w, "📊 Item Analysis (%d items)\n\n", len(rows))
	fmt.Fprintf(w, "%-40s %-12s %-12s %-8s\n", "Item", "WP", "Power (MW)", "Recipes")
	fmt.Fprintf(w, "%-40s %-12s %-12s %-8s\n", rule(40, 12, 12, 8)...)

	for _, row := range rows {
		fmt.Fprintf(w, "%-40s %-12s %-12s %-8d\n",
			row.Item,
			Amount(row.WP),
			Amount(row.Power),
			len(row.RecipeBreakdown))
	}
	_, err := fmt.Fprintln(w)
	return err
}

// WriteAnalysisCSV writes one record per item
func WriteAnalysisCSV(w io.Writer, rows []ItemRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"item", "wp", "power", "recipes"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			string(row.Item),
			Amount(row.WP),
			Amount(row.Power),
			strconv.Itoa(len(row.RecipeBreakdown)),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", row.Item, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRecipeDetails prints every recipe that can produce item with its per-unit cost
func WriteRecipeDetails(w io.Writer, item entities.ItemName, analysis *entities.ItemAnalysis) error {
	if analysis == nil {
		_, err := fmt.Fprintf(w, "No analysis available for %s\n", item)
		return err
	}

	fmt.Fprintf(w, "🔍 %s: wp %s, power %s MW\n\n", item, Amount(analysis.WP), Amount(analysis.Power))
	fmt.Fprintf(w, "%-40s %-12s %-12s %-12s %-12s\n", "Recipe", "Rate/min", "WP", "Power (MW)", "WP Flow")
	fmt.Fprintf(w, "%-40s %-12s %-12s %-12s %-12s\n", rule(40, 12, 12, 12, 12)...)

	for _, recipe := range analysis.RecipeBreakdown {
		fmt.Fprintf(w, "%-40s %-12s %-12s %-12s %-12s\n",
			recipe.RecipeName,
			Rate(recipe.Rate),
			Amount(recipe.WP),
			Amount(recipe.Power),
			Rate(recipe.WPFlow))
		for _, in := range recipe.Inputs {
			fmt.Fprintf(w, "    %sx %-30s wp %s, power %s\n",
				Rate(in.Quantity),
				in.Item,
				Amount(in.WPPerItem),
				Amount(in.PowerPerItem))
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
