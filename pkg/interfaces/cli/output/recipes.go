package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	csvloader "github.com/vsinha/factoryplan/pkg/infrastructure/repositories/csv"
)

// StackRate is one recipe input or output with its per-minute rate at one machine
type StackRate struct {
	Item     entities.ItemName `json:"item"`
	Quantity uint32            `json:"quantity"`
	PerMin   float64           `json:"per_min"`
}

// RecipeRow is the display form of one catalog recipe
type RecipeRow struct {
	Name    string               `json:"name"`
	Machine entities.MachineName `json:"machine"`
	Seconds float64              `json:"seconds"`
	Enabled bool                 `json:"enabled"`
	Inputs  []StackRate          `json:"inputs"`
	Outputs []StackRate          `json:"outputs"`
}

// RecipeRows converts recipes into display rows, keeping catalog order
func RecipeRows(recipes []entities.Recipe) []RecipeRow {
	rows := make([]RecipeRow, 0, len(recipes))
	for i := range recipes {
		recipe := &recipes[i]
		rows = append(rows, RecipeRow{
			Name:    recipe.Name,
			Machine: recipe.Machine.Name,
			Seconds: recipe.Seconds(),
			Enabled: recipe.Enabled,
			Inputs:  stackRates(recipe, recipe.Inputs),
			Outputs: stackRates(recipe, recipe.Outputs),
		})
	}
	return rows
}

func stackRates(recipe *entities.Recipe, stacks []entities.ItemStack) []StackRate {
	rates := make([]StackRate, 0, len(stacks))
	for _, stack := range stacks {
		rates = append(rates, StackRate{
			Item:     stack.Item,
			Quantity: stack.Quantity,
			PerMin:   recipe.ItemsPerMinute(stack),
		})
	}
	return rates
}

// FormatStackRates renders stacks as "2x Ore (60.0000/min), ..."
func FormatStackRates(rates []StackRate) string {
	if len(rates) == 0 {
		return Placeholder
	}
	parts := make([]string, 0, len(rates))
	for _, r := range rates {
		parts = append(parts, fmt.Sprintf("%dx %s (%s/min)", r.Quantity, r.Item, Rate(r.PerMin)))
	}
	return strings.Join(parts, ", ")
}

// GenerateRecipes writes the recipe catalog in the configured format
func GenerateRecipes(stdout io.Writer, rows []RecipeRow, config Config) error {
	switch config.Format {
	case FormatText:
		return emit(stdout, config, "recipes", func(w io.Writer) error {
			return WriteRecipesText(w, rows)
		})
	case FormatJSON:
		return emit(stdout, config, "recipes", func(w io.Writer) error {
			return writeJSON(w, rows)
		})
	case FormatCSV:
		return emit(stdout, config, "recipes", func(w io.Writer) error {
			return WriteRecipesCSV(w, rows)
		})
	default:
		return ValidateFormat(config.Format)
	}
}

// WriteRecipesText prints one block per recipe
func WriteRecipesText(w io.Writer, rows []RecipeRow) error {
	fmt.Fprintf(w, "📋 Recipes (%d)\n\n", len(rows))
	for _, row := range rows {
		status := "enabled"
		if !row.Enabled {
			status = "disabled"
		}
		fmt.Fprintf(w, "%s [%s]\n", row.Name, status)
		fmt.Fprintf(w, "  Machine: %-24s Time: %ss\n", row.Machine, Amount(row.Seconds))
		fmt.Fprintf(w, "  In:  %s\n", FormatStackRates(row.Inputs))
		fmt.Fprintf(w, "  Out: %s\n", FormatStackRates(row.Outputs))
	}
	_, err := fmt.Fprintln(w)
	return err
}

// WriteRecipesCSV writes the catalog in the layout the CSV loader reads back
func WriteRecipesCSV(w io.Writer, rows []RecipeRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvloader.RecipesHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Name,
			string(row.Machine),
			strconv.FormatFloat(row.Seconds, 'f', -1, 64),
			csvloader.FormatStacks(itemStacks(row.Inputs)),
			csvloader.FormatStacks(itemStacks(row.Outputs)),
			strconv.FormatBool(row.Enabled),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", row.Name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func itemStacks(rates []StackRate) []entities.ItemStack {
	stacks := make([]entities.ItemStack, len(rates))
	for i, r := range rates {
		stacks[i] = entities.ItemStack{Item: r.Item, Quantity: r.Quantity}
	}
	return stacks
}
