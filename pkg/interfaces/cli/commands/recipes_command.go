package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/interfaces/cli/output"
)

// RecipesCommand lists the catalog with per-minute rates
type RecipesCommand struct {
	config Config
}

// NewRecipesCommand creates a new recipes command with the given configuration
func NewRecipesCommand(config Config) *RecipesCommand {
	return &RecipesCommand{
		config: config,
	}
}

// Execute runs the recipes command
func (c *RecipesCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := output.ValidateFormat(c.config.Format); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	ws, err := loadWorkspace(c.config)
	if err != nil {
		return err
	}

	var recipes []entities.Recipe
	if c.config.Item != "" {
		producers, err := ws.recipes.GetRecipesForOutput(entities.ItemName(c.config.Item))
		if err != nil {
			return fmt.Errorf("error loading recipes: %w", err)
		}
		for _, recipe := range producers {
			recipes = append(recipes, *recipe)
		}
	} else {
		recipes, err = ws.recipes.GetAllRecipes()
		if err != nil {
			return fmt.Errorf("error loading recipes: %w", err)
		}
	}

	if c.config.EnabledOnly {
		enabled := recipes[:0]
		for _, recipe := range recipes {
			if recipe.Enabled {
				enabled = append(enabled, recipe)
			}
		}
		recipes = enabled
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
	}
	if err := output.GenerateRecipes(c.config.stdout(), output.RecipeRows(recipes), outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return ws.finish(c.config)
}

// showHelp displays the help message
func (c *RecipesCommand) showHelp() {
	fmt.Fprintf(c.config.stdout(), `factoryplan recipes - list the recipe catalog

USAGE:
    factoryplan recipes -data <directory> [options]

OPTIONS:
    -item <name>        Only recipes producing this item
    -enabled-only       Only enabled recipes
    -enable <names>     Enable recipes (comma separated, repeatable)
    -disable <names>    Disable recipes (comma separated, repeatable)
    -format <fmt>       Output format: text, json, csv (default: text).
                        CSV output can be read back as recipes.csv.
    -output <dir>       Write results to a directory instead of stdout

EXAMPLES:
    factoryplan recipes -data example/data -item "Iron Ingot"
    factoryplan recipes -gamedata Docs.json -format csv -output data/
`)
}
