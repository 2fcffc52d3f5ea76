package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/interfaces/cli/output"
)

// AnalyzeCommand computes the weighted-points cost of every reachable item
type AnalyzeCommand struct {
	config Config
}

// NewAnalyzeCommand creates a new analyze command with the given configuration
func NewAnalyzeCommand(config Config) *AnalyzeCommand {
	return &AnalyzeCommand{
		config: config,
	}
}

// Execute runs the analyze command
func (c *AnalyzeCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := output.ValidateFormat(c.config.Format); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	sortKey, err := output.ParseSortKey(c.config.Sort)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	ws, err := loadWorkspace(c.config)
	if err != nil {
		return err
	}
	ctx = runContext(ctx)
	stdout := c.config.stdout()

	if c.config.Verbose {
		fmt.Fprintf(c.config.stderr(), "🔄 Propagating costs over %d recipes...\n", ws.recipes.Count())
	}

	startTime := time.Now()
	result, err := ws.service.Analyze(ctx)
	if err != nil {
		return fmt.Errorf("error running analysis: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.config.stderr(), "✅ %d items resolved in %d passes (%v)\n\n",
			result.Stats.ResolvedItems, result.Stats.Passes, time.Since(startTime))
	}

	if c.config.Item != "" {
		item := entities.ItemName(c.config.Item)
		if err := output.WriteRecipeDetails(stdout, item, result.Items[item]); err != nil {
			return fmt.Errorf("error generating output: %w", err)
		}
	} else {
		rows := output.SortAnalysis(result.Items, sortKey, c.config.Descending)
		outputConfig := output.Config{
			Format:    c.config.Format,
			OutputDir: c.config.OutputDir,
			Verbose:   c.config.Verbose,
		}
		if err := output.GenerateAnalysis(stdout, rows, outputConfig); err != nil {
			return fmt.Errorf("error generating output: %w", err)
		}
	}

	return ws.finish(c.config)
}

// showHelp displays the help message
func (c *AnalyzeCommand) showHelp() {
	fmt.Fprintf(c.config.stdout(), `factoryplan analyze - weighted-points cost of every item

USAGE:
    factoryplan analyze -data <directory> [options]
    factoryplan analyze -gamedata <file> [options]

OPTIONS:
    -item <name>        Show every recipe for one item instead of the table
    -sort <column>      Sort by item, wp or power (default: item)
    -desc               Sort descending
    -enabled-only       Ignore disabled recipes
    -enable <names>     Enable recipes (comma separated, repeatable)
    -disable <names>    Disable recipes (comma separated, repeatable)
    -format <fmt>       Output format: text, json, csv (default: text)
    -output <dir>       Write results to a directory instead of stdout
    -metrics-file <f>   Write Prometheus metrics in textfile format
    -verbose            Enable verbose output

EXAMPLES:
    factoryplan analyze -data example/data -sort wp -desc
    factoryplan analyze -gamedata Docs.json -item "Reinforced Iron Plate"
`)
}
