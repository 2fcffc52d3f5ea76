package commands

import (
	"context"
	"fmt"
)

// SearchCommand suggests products for a partial name
type SearchCommand struct {
	config Config
}

// NewSearchCommand creates a new search command with the given configuration
func NewSearchCommand(config Config) *SearchCommand {
	return &SearchCommand{
		config: config,
	}
}

// Execute runs the search command
func (c *SearchCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if c.config.Query == "" {
		return fmt.Errorf("validation error: a search query is required")
	}
	requested, err := parseDemands(c.config.Demands)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	ws, err := loadWorkspace(c.config)
	if err != nil {
		return err
	}

	stdout := c.config.stdout()
	for _, product := range ws.service.SearchProducts(c.config.Query, requested) {
		fmt.Fprintln(stdout, product)
	}

	return ws.finish(c.config)
}

// showHelp displays the help message
func (c *SearchCommand) showHelp() {
	fmt.Fprintf(c.config.stdout(), `factoryplan search - product name suggestions

USAGE:
    factoryplan search -data <directory> [-demand <product> ...] <query>

Matching is case-insensitive on any part of the name. Products passed
with -demand are left out of the suggestions.

EXAMPLES:
    factoryplan search -data example/data plate
`)
}
