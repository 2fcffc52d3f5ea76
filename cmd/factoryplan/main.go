package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/vsinha/factoryplan/pkg/interfaces/cli/commands"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	name, args := os.Args[1], os.Args[2:]
	cmd, err := newCommand(name, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if cmd == nil {
		usage()
		return
	}

	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCommand(name string, args []string) (command, error) {
	switch name {
	case "analyze", "plan", "recipes", "search", "session":
		config, err := parseConfig(name, args)
		if err != nil {
			return nil, err
		}
		switch name {
		case "analyze":
			return commands.NewAnalyzeCommand(config), nil
		case "plan":
			return commands.NewPlanCommand(config), nil
		case "recipes":
			return commands.NewRecipesCommand(config), nil
		case "session":
			return commands.NewSessionCommand(config), nil
		default:
			return commands.NewSearchCommand(config), nil
		}
	case "generate":
		config, err := parseGenerateConfig(args)
		if err != nil {
			return nil, err
		}
		return commands.NewGenerateCommand(config), nil
	case "help", "-help", "-h", "--help":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown command %q (expected: analyze, plan, recipes, search, session or generate)", name)
	}
}

func parseConfig(name string, args []string) (commands.Config, error) {
	var config commands.Config
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	// Catalog sources
	fs.StringVar(&config.DataDir, "data", "", "Directory containing recipes.csv, machines.csv, resources.csv and demands.csv")
	fs.StringVar(&config.RecipesFile, "recipes", "", "Path to recipes CSV file")
	fs.StringVar(&config.MachinesFile, "machines", "", "Path to machines CSV file")
	fs.StringVar(&config.ResourcesFile, "resources", "", "Path to raw resources CSV file")
	fs.StringVar(&config.DemandsFile, "demands", "", "Path to demands CSV file")
	fs.StringVar(&config.GameDataFile, "gamedata", "", "Path to a Docs.json or recipe list JSON file")
	fs.StringVar(&config.EnvFile, "env", "", "Path to a .env file with FACTORYPLAN_* settings")

	// Output
	fs.StringVar(&config.OutputDir, "output", "", "Output directory for results (optional)")
	fs.StringVar(&config.Format, "format", "text", "Output format: text, json, csv")
	fs.StringVar(&config.Sort, "sort", "item", "Sort column: item, wp or power")
	fs.BoolVar(&config.Descending, "desc", false, "Sort descending")

	// Planning
	fs.StringVar(&config.Item, "item", "", "Item to show recipes for")
	fs.Var(&config.Demands, "demand", "Requested product as Product=rate (repeatable)")
	fs.Var(&config.Enable, "enable", "Recipes to enable (comma separated, repeatable)")
	fs.Var(&config.Disable, "disable", "Recipes to disable (comma separated, repeatable)")
	fs.Var(&config.Pins, "pin", "Force a recipe as Product=Recipe (repeatable)")
	fs.StringVar(&config.Selector, "selector", "", "Recipe choice: catalog or cheapest")
	fs.BoolVar(&config.EnabledOnly, "enabled-only", false, "Ignore disabled recipes")

	fs.StringVar(&config.MetricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format")
	fs.BoolVar(&config.Verbose, "verbose", false, "Enable verbose output")
	fs.BoolVar(&config.Help, "help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return config, err
	}
	if name == "search" {
		config.Query = strings.Join(fs.Args(), " ")
	}
	return config, nil
}

func parseGenerateConfig(args []string) (commands.GenerateConfig, error) {
	var config commands.GenerateConfig
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)

	fs.IntVar(&config.Items, "items", 100, "Number of craftable items")
	fs.IntVar(&config.MaxDepth, "depth", 6, "Number of production tiers")
	fs.IntVar(&config.Demands, "demands", 5, "Number of demand lines")
	fs.Float64Var(&config.Alternates, "alternates", 0.3, "Share of items with a disabled alternate recipe")
	fs.Int64Var(&config.Seed, "seed", 0, "Random seed (0 = time based)")
	fs.StringVar(&config.OutputDir, "output", "", "Output directory")
	fs.BoolVar(&config.Verbose, "verbose", false, "Enable verbose output")
	fs.BoolVar(&config.Help, "help", false, "Show help message")

	err := fs.Parse(args)
	return config, err
}

func usage() {
	fmt.Printf(`factoryplan - factory production planning calculator

USAGE:
    factoryplan <command> [options]

COMMANDS:
    analyze     Weighted-points and power cost of every item
    plan        Production trees, raw resource and machine totals for target rates
    recipes     List the recipe catalog with per-minute rates
    search      Product name suggestions
    session     Interactive session: edit demands and recipes, replan
    generate    Write a random layered catalog for testing

Run "factoryplan <command> -help" for command options.

DATA DIRECTORY STRUCTURE:
    data/
    ├── recipes.csv     # name,machine,time_seconds,inputs,outputs,enabled
    ├── machines.csv    # machine,power_mw
    ├── resources.csv   # resource,availability (optional, "inf" for unlimited)
    └── demands.csv     # product,rate_per_min (optional)

ENVIRONMENT:
    FACTORYPLAN_LOG_LEVEL            debug, info, warn, error (default: warn)
    FACTORYPLAN_LOG_FORMAT           text or json (default: text)
    FACTORYPLAN_REFERENCE_POLICY     designated or max (default: designated)
    FACTORYPLAN_REFERENCE_RESOURCE   reference raw resource (default: Iron Ore)
    FACTORYPLAN_SELECTOR             catalog or cheapest (default: catalog)
    FACTORYPLAN_CACHE_SIZE           cached analysis runs (default: 16)
    FACTORYPLAN_THRESHOLD            convergence threshold (default: 1e-6)
    FACTORYPLAN_MAX_PASSES           relaxation pass limit (default: 10000)
`)
}
