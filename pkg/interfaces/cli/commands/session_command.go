package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vsinha/factoryplan/pkg/application/services/breakdown"
	"github.com/vsinha/factoryplan/pkg/application/services/planner"
	"github.com/vsinha/factoryplan/pkg/application/services/session"
	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/infrastructure/events"
	"github.com/vsinha/factoryplan/pkg/interfaces/cli/output"
)

var errQuit = errors.New("quit")

// SessionCommand runs an interactive planning session over stdin
type SessionCommand struct {
	config  Config
	session *session.Session
	out     io.Writer
}

// NewSessionCommand creates a new session command with the given configuration
func NewSessionCommand(config Config) *SessionCommand {
	return &SessionCommand{
		config: config,
		out:    config.stdout(),
	}
}

// Execute loads the catalog and reads commands until quit or end of input
func (c *SessionCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	requested, err := parseDemands(c.config.Demands)
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
	if requested == nil {
		if requested, err = ws.demands.GetDemands(); err != nil {
			return fmt.Errorf("failed to load demands: %w", err)
		}
	}

	selector := c.config.Selector
	if selector == "" {
		selector = strings.ToLower(ws.settings.Selector)
	}

	c.session, err = session.New(
		ws.service,
		ws.recipes,
		events.NewInMemoryEventStore(),
		requested,
		planner.PlanOptions{Selector: selector, Pins: pins},
		ws.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	if err := c.run(runContext(ctx), c.config.stdin()); err != nil {
		return err
	}
	return ws.finish(c.config)
}

func (c *SessionCommand) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(c.out, "=== Factory Planning Session ===")
	fmt.Fprintf(c.out, "%d demands loaded. Type 'help' for available commands\n\n", len(c.session.Demands()))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, "plan> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		err := c.processCommand(ctx, line)
		if errors.Is(err, errQuit) {
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		}
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
		fmt.Fprintln(c.out)
	}

	return scanner.Err()
}

func (c *SessionCommand) processCommand(ctx context.Context, line string) error {
	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch command {
	case "help", "h":
		c.printInteractiveHelp()
	case "add", "demand":
		return c.handleAdd(rest)
	case "remove", "rm":
		return c.handleRemove(rest)
	case "enable":
		return c.handleToggle(rest, true)
	case "disable":
		return c.handleToggle(rest, false)
	case "demands", "list":
		c.handleDemands()
	case "plan":
		return c.handlePlan(ctx, false)
	case "summary":
		return c.handlePlan(ctx, true)
	case "cost":
		return c.handleCost(ctx, rest)
	case "search":
		return c.handleSearch(rest)
	case "status":
		return c.handleStatus()
	case "events":
		return c.handleShowEvents(rest)
	case "quit", "q", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", command)
	}

	return nil
}

func (c *SessionCommand) handleAdd(arg string) error {
	if arg == "" {
		return fmt.Errorf("usage: add <product>[=rate]")
	}
	parsed, err := parseDemands([]string{arg})
	if err != nil {
		return err
	}

	demand := parsed[0]
	if err := c.session.SetDemand(demand.Product, demand.Rate); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Requested %s at %s/min\n", demand.Product, output.Amount(demand.Rate))
	return nil
}

func (c *SessionCommand) handleRemove(arg string) error {
	if arg == "" {
		return fmt.Errorf("usage: remove <product>")
	}
	if err := c.session.RemoveDemand(entities.ItemName(arg)); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Removed %s\n", arg)
	return nil
}

func (c *SessionCommand) handleToggle(name string, enabled bool) error {
	if name == "" {
		return fmt.Errorf("usage: enable|disable <recipe>")
	}
	if err := c.session.SetRecipeEnabled(name, enabled); err != nil {
		return err
	}
	state := "Disabled"
	if enabled {
		state = "Enabled"
	}
	fmt.Fprintf(c.out, "%s %s\n", state, name)
	return nil
}

func (c *SessionCommand) handleDemands() {
	demands := c.session.Demands()
	if len(demands) == 0 {
		fmt.Fprintln(c.out, "No demands")
		return
	}
	for _, d := range demands {
		fmt.Fprintf(c.out, "  %-40s %s/min\n", d.Product, output.Amount(d.Rate))
	}
}

func (c *SessionCommand) handlePlan(ctx context.Context, summaryOnly bool) error {
	result, err := c.session.Plan(ctx)
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}
	if summaryOnly {
		return output.WriteSummaryText(c.out, result)
	}
	return output.GeneratePlan(c.out, result, c.session.RawResources(), output.Config{Format: output.FormatText})
}

func (c *SessionCommand) handleCost(ctx context.Context, item string) error {
	if item == "" {
		return fmt.Errorf("usage: cost <item>")
	}
	result, err := c.session.Analyze(ctx)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	name := entities.ItemName(item)
	return output.WriteRecipeDetails(c.out, name, result.Items[name])
}

func (c *SessionCommand) handleSearch(query string) error {
	if query == "" {
		return fmt.Errorf("usage: search <query>")
	}
	for _, product := range c.session.Search(query) {
		fmt.Fprintln(c.out, product)
	}
	return nil
}

func (c *SessionCommand) handleStatus() error {
	allEvents, err := c.session.Events(0)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	fmt.Fprintf(c.out, "=== Session Status ===\n")
	fmt.Fprintf(c.out, "Demands: %d\n", len(c.session.Demands()))
	fmt.Fprintf(c.out, "Plan up to date: %t\n", !c.session.Stale())
	fmt.Fprintf(c.out, "Total events: %d\n", len(allEvents))

	eventCounts := make(map[string]int)
	for _, event := range allEvents {
		eventCounts[event.Type()]++
	}
	eventTypes := make([]string, 0, len(eventCounts))
	for eventType := range eventCounts {
		eventTypes = append(eventTypes, eventType)
	}
	sort.Strings(eventTypes)

	for _, eventType := range eventTypes {
		fmt.Fprintf(c.out, "  %s: %d\n", eventType, eventCounts[eventType])
	}
	return nil
}

func (c *SessionCommand) handleShowEvents(arg string) error {
	limit := 10
	if arg != "" {
		l, err := strconv.Atoi(arg)
		if err != nil || l <= 0 {
			return fmt.Errorf("invalid event count: %s", arg)
		}
		limit = l
	}

	allEvents, err := c.session.Events(0)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	fmt.Fprintf(c.out, "=== Recent Events (last %d) ===\n", limit)
	start := max(len(allEvents)-limit, 0)
	for _, event := range allEvents[start:] {
		fmt.Fprintf(c.out, "[%s] %s #%d %s\n",
			event.Timestamp().Format("15:04:05"),
			event.StreamID(),
			event.Version(),
			describeEvent(event))
	}
	return nil
}

func describeEvent(event events.Event) string {
	switch data := event.Data().(type) {
	case events.DemandAdded:
		return fmt.Sprintf("added %s at %s/min", data.Demand.Product, output.Amount(data.Demand.Rate))
	case events.DemandUpdated:
		return fmt.Sprintf("changed %s from %s to %s/min",
			data.NewDemand.Product, output.Amount(data.OldDemand.Rate), output.Amount(data.NewDemand.Rate))
	case events.DemandRemoved:
		return fmt.Sprintf("removed %s", data.Demand.Product)
	case events.RecipeToggled:
		if data.Enabled {
			return fmt.Sprintf("enabled %s", data.Recipe)
		}
		return fmt.Sprintf("disabled %s", data.Recipe)
	case events.PlanBuilt:
		return fmt.Sprintf("planned %d demands: %d raw resources, %d machine types",
			data.Demands, data.RawResources, data.Machines)
	default:
		return event.Type()
	}
}

func (c *SessionCommand) printInteractiveHelp() {
	fmt.Fprint(c.out, `Available commands:
  add <product>[=rate]    Request a product (default 60/min) or change its rate
  remove <product>        Drop a requested product
  enable <recipe>         Enable a recipe
  disable <recipe>        Disable a recipe
  demands                 List requested products
  plan                    Production trees and totals for the current demands
  summary                 Raw resource and machine totals only
  cost <item>             Weighted points and recipe costs for an item
  search <query>          Products not yet requested whose name contains query
  status                  Session state and event counts
  events [n]              Last n session changes (default 10)
  quit                    Leave the session
`)
}

// showHelp displays the help message
func (c *SessionCommand) showHelp() {
	fmt.Fprintf(c.config.stdout(), `factoryplan session - interactive planning session

USAGE:
    factoryplan session -data <directory> [options]

OPTIONS:
    -data <dir>          Directory containing recipes.csv and optional machines, resources and demands
    -gamedata <file>     Docs.json or recipe list JSON instead of CSV recipes
    -demand <p=rate>     Initial demands instead of demands.csv (repeatable)
    -enable <recipes>    Recipes to enable before the session starts
    -disable <recipes>   Recipes to disable before the session starts
    -pin <p=recipe>      Force a recipe for a product
    -selector <name>     Recipe choice: catalog or cheapest

Commands are read from standard input, one per line. The plan is rebuilt
only after a demand or recipe change.

EXAMPLES:
    factoryplan session -data example/data
    echo "add Iron Plate=30" | factoryplan session -data example/data
`)
}
