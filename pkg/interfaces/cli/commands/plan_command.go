package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vsinha/factoryplan/pkg/application/services/breakdown"
	"github.com/vsinha/factoryplan/pkg/application/services/planner"
	"github.com/vsinha/factoryplan/pkg/interfaces/cli/output"
)

// PlanCommand expands demands into production trees and totals
type PlanCommand struct {
	config Config
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config Config) *PlanCommand {
	return &PlanCommand{
		config: config,
	}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := output.ValidateFormat(c.config.Format); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	demands, err := parseDemands(c.config.Demands)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	pins, err := breakdown.ParsePins(c.config.Pins)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	ws, err := loadWorkspace(c.config)
	if err != nil {
		return err
	}
	ctx = runContext(ctx)

	if c.config.Verbose {
		c.printValidation(ws)
	}

	selector := c.config.Selector
	if selector == "" {
		selector = strings.ToLower(ws.settings.Selector)
	}

	startTime := time.Now()
	result, err := ws.service.Plan(ctx, demands, planner.PlanOptions{
		Selector: selector,
		Pins:     pins,
	})
	if err != nil {
		return fmt.Errorf("error building plan: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.config.stderr(), "✅ Plan built in %v\n\n", time.Since(startTime))
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
	}
	if err := output.GeneratePlan(c.config.stdout(), result, ws.raw, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return ws.finish(c.config)
}

func (c *PlanCommand) printValidation(ws *workspace) {
	stderr := c.config.stderr()
	fmt.Fprintln(stderr, "🔍 Validating recipe catalog...")

	validation, err := ws.service.ValidateCatalog()
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
		return
	}
	for _, e := range validation.Errors {
		fmt.Fprintf(stderr, "  ❌ %s\n", e)
	}
	for _, w := range validation.Warnings {
		fmt.Fprintf(stderr, "  ⚠️  %s\n", w)
	}
	if validation.IsValid() && len(validation.Warnings) == 0 {
		fmt.Fprintln(stderr, "✅ Catalog validation passed")
	}
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Fprintf(c.config.stdout(), `factoryplan plan - production trees for target rates

USAGE:
    factoryplan plan -data <directory> [-demand "Product=rate" ...] [options]

OPTIONS:
    -demand <p=rate>    Requested product and rate per minute; rate defaults to 60.
                        Without -demand the demands.csv entries are planned.
    -selector <name>    Recipe choice: catalog (first enabled) or cheapest
    -pin <p=recipe>     Force a recipe for a product when it is enabled
    -enable <names>     Enable recipes (comma separated, repeatable)
    -disable <names>    Disable recipes (comma separated, repeatable)
    -format <fmt>       Output format: text, json, csv (default: text)
    -output <dir>       Write results to a directory instead of stdout
    -metrics-file <f>   Write Prometheus metrics in textfile format
    -verbose            Enable verbose output

EXAMPLES:
    factoryplan plan -data example/data -demand "Reinforced Iron Plate=5"
    factoryplan plan -data example/data -selector cheapest -format json
    factoryplan plan -gamedata Docs.json -demand Computer -pin "Computer=Alternate: Caterium Computer"
`)
}
