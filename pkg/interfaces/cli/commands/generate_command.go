package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	csvloader "github.com/vsinha/factoryplan/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for catalog generation
type GenerateConfig struct {
	Items      int     // Number of craftable items to generate
	MaxDepth   int     // Number of production tiers above raw resources
	Demands    int     // Number of demand lines drawn from the top tier
	Alternates float64 // Share of items that also get a disabled alternate recipe
	OutputDir  string  // Output directory for generated files
	Seed       int64   // Random seed for reproducible generation
	Help       bool    // Show help
	Verbose    bool    // Verbose output
}

// GenerateCommand writes a random layered recipe catalog as CSV files
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
}

// machineTiers maps input count to the machine that crafts it
var machineTiers = []struct {
	name  entities.MachineName
	power float64
}{
	{"Smelter", 4},
	{"Constructor", 4},
	{"Assembler", 15},
	{"Manufacturer", 55},
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

// generatedItem is one craftable item and the tier it sits on
type generatedItem struct {
	Name entities.ItemName
	Tier int
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}
	if cmd.config.Items <= 0 || cmd.config.MaxDepth <= 0 {
		return fmt.Errorf("validation error: items and max depth must be positive")
	}
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("validation error: an output directory is required")
	}

	if cmd.config.Verbose {
		fmt.Printf("🔧 Generating catalog with %d items over %d tiers, %d demands\n",
			cmd.config.Items, cmd.config.MaxDepth, cmd.config.Demands)
		fmt.Printf("📁 Output directory: %s\n", cmd.config.OutputDir)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	raw := entities.SatisfactoryResources()
	var rawNames []entities.ItemName
	for _, name := range raw.Names() {
		if !math.IsInf(raw.Availability[name], 1) {
			rawNames = append(rawNames, name)
		}
	}

	items := cmd.generateItems()
	recipes := cmd.generateRecipes(items, rawNames)

	steps := []struct {
		file  string
		write func(*csv.Writer) error
	}{
		{RecipesFileName, func(w *csv.Writer) error { return writeRecipes(w, recipes) }},
		{MachinesFileName, writeMachines},
		{ResourcesFileName, func(w *csv.Writer) error { return writeResources(w, raw) }},
		{DemandsFileName, func(w *csv.Writer) error { return cmd.writeDemands(w, items) }},
	}
	for _, step := range steps {
		if cmd.config.Verbose {
			fmt.Printf("📦 Generating %s...\n", step.file)
		}
		if err := writeCSVFile(filepath.Join(cmd.config.OutputDir, step.file), step.write); err != nil {
			return fmt.Errorf("failed to generate %s: %w", step.file, err)
		}
	}

	if cmd.config.Verbose {
		fmt.Printf("✅ Catalog generated successfully in %s (%d recipes)\n", cmd.config.OutputDir, len(recipes))
	}
	return nil
}

// generateItems spreads items evenly over the tiers, lowest tier first
func (cmd *GenerateCommand) generateItems() []generatedItem {
	items := make([]generatedItem, 0, cmd.config.Items)
	for i := 0; i < cmd.config.Items; i++ {
		tier := 1 + i*cmd.config.MaxDepth/cmd.config.Items
		items = append(items, generatedItem{
			Name: entities.ItemName(fmt.Sprintf("Part T%d-%04d", tier, i+1)),
			Tier: tier,
		})
	}
	return items
}

// generateRecipes gives every item a main recipe whose inputs come from lower tiers,
// so the catalog is acyclic and every item resolves to raw resources
func (cmd *GenerateCommand) generateRecipes(items []generatedItem, rawNames []entities.ItemName) []entities.Recipe {
	var recipes []entities.Recipe
	for i, item := range items {
		var lower []entities.ItemName
		lower = append(lower, rawNames...)
		for _, other := range items[:i] {
			if other.Tier < item.Tier {
				lower = append(lower, other.Name)
			}
		}

		recipes = append(recipes, cmd.newRecipe(string(item.Name), item.Name, lower, true))
		if cmd.rand.Float64() < cmd.config.Alternates {
			recipes = append(recipes, cmd.newRecipe("Alternate: "+string(item.Name), item.Name, lower, false))
		}
	}
	return recipes
}

func (cmd *GenerateCommand) newRecipe(name string, product entities.ItemName, lower []entities.ItemName, enabled bool) entities.Recipe {
	numInputs := 1 + cmd.rand.Intn(min(len(machineTiers), len(lower)))
	picked := cmd.rand.Perm(len(lower))[:numInputs]

	inputs := make([]entities.ItemStack, 0, numInputs)
	for _, idx := range picked {
		inputs = append(inputs, entities.ItemStack{
			Item:     lower[idx],
			Quantity: uint32(1 + cmd.rand.Intn(6)),
		})
	}

	return entities.Recipe{
		Name:    name,
		Inputs:  inputs,
		Outputs: []entities.ItemStack{{Item: product, Quantity: uint32(1 + cmd.rand.Intn(3))}},
		Machine: entities.Machine{Name: machineTiers[numInputs-1].name},
		TimeMs:  uint32(500 * (1 + cmd.rand.Intn(24))),
		Enabled: enabled,
	}
}

func writeCSVFile(path string, write func(*csv.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := write(writer); err != nil {
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

func writeRecipes(w *csv.Writer, recipes []entities.Recipe) error {
	if err := w.Write(csvloader.RecipesHeader); err != nil {
		return err
	}
	for i := range recipes {
		r := &recipes[i]
		record := []string{
			r.Name,
			string(r.Machine.Name),
			strconv.FormatFloat(r.Seconds(), 'f', -1, 64),
			csvloader.FormatStacks(r.Inputs),
			csvloader.FormatStacks(r.Outputs),
			strconv.FormatBool(r.Enabled),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeMachines(w *csv.Writer) error {
	if err := w.Write(csvloader.MachinesHeader); err != nil {
		return err
	}
	for _, m := range machineTiers {
		if err := w.Write([]string{string(m.name), strconv.FormatFloat(m.power, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	return nil
}

func writeResources(w *csv.Writer, raw *entities.RawResourceTable) error {
	if err := w.Write(csvloader.ResourcesHeader); err != nil {
		return err
	}
	for _, name := range raw.Names() {
		avail := "inf"
		if a := raw.Availability[name]; !math.IsInf(a, 1) {
			avail = strconv.FormatFloat(a, 'f', -1, 64)
		}
		if err := w.Write([]string{string(name), avail}); err != nil {
			return err
		}
	}
	return nil
}

// writeDemands requests items from the top tier, falling back to lower tiers when it is small
func (cmd *GenerateCommand) writeDemands(w *csv.Writer, items []generatedItem) error {
	if err := w.Write(csvloader.DemandsHeader); err != nil {
		return err
	}
	for i := 0; i < cmd.config.Demands && i < len(items); i++ {
		item := items[len(items)-1-i]
		rate := 1 + cmd.rand.Intn(30)
		if err := w.Write([]string{string(item.Name), strconv.Itoa(rate)}); err != nil {
			return err
		}
	}
	return nil
}

// printHelp displays help information for the generate command
func (cmd *GenerateCommand) printHelp() {
	fmt.Printf(`factoryplan generate - random layered recipe catalog

USAGE:
    factoryplan generate -output <dir> [options]

OPTIONS:
    -items <n>          Number of craftable items (default: 100)
    -depth <n>          Number of production tiers (default: 6)
    -demands <n>        Number of demand lines (default: 5)
    -alternates <f>     Share of items with a disabled alternate recipe (default: 0.3)
    -seed <n>           Random seed for reproducible catalogs
    -output <dir>       Output directory (required)
    -verbose            Enable verbose output

Raw resources follow the built-in Satisfactory extraction table, so the
generated directory can be planned with the default reference resource.

EXAMPLES:
    factoryplan generate -items 500 -depth 8 -seed 42 -output /tmp/catalog
    factoryplan plan -data /tmp/catalog
`)
}
