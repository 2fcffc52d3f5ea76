package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

// Expected headers for each catalog file
var (
	RecipesHeader   = []string{"name", "machine", "time_seconds", "inputs", "outputs", "enabled"}
	MachinesHeader  = []string{"machine", "power_mw"}
	ResourcesHeader = []string{"resource", "availability"}
	DemandsHeader   = []string{"product", "rate_per_min"}
)

var millisPerSecond = decimal.NewFromInt(1000)

// Loader handles loading planner data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadRecipes loads the recipe catalog from a CSV file, keeping file order
func (l *Loader) LoadRecipes(filename string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	err := withFile(filename, "recipes", func(r io.Reader) error {
		var err error
		recipes, err = l.ReadRecipes(r)
		return err
	})
	return recipes, err
}

// ReadRecipes parses a recipe catalog
func (l *Loader) ReadRecipes(r io.Reader) ([]*entities.Recipe, error) {
	records, err := readRecords(r, "recipes", RecipesHeader)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("recipes CSV must have header and at least one data row")
	}

	recipes := make([]*entities.Recipe, 0, len(records))
	for i, record := range records {
		recipe, err := parseRecipe(record)
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: %w", i+2, err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// LoadMachines loads machine power draws from a CSV file
func (l *Loader) LoadMachines(filename string) (entities.MachinePowerMap, error) {
	var power entities.MachinePowerMap
	err := withFile(filename, "machines", func(r io.Reader) error {
		var err error
		power, err = l.ReadMachines(r)
		return err
	})
	return power, err
}

// ReadMachines parses machine power draws in MW
func (l *Loader) ReadMachines(r io.Reader) (entities.MachinePowerMap, error) {
	records, err := readRecords(r, "machines", MachinesHeader)
	if err != nil {
		return nil, err
	}

	power := make(entities.MachinePowerMap, len(records))
	for i, record := range records {
		name := strings.TrimSpace(record[0])
		if name == "" {
			return nil, fmt.Errorf("machines CSV row %d: machine name cannot be empty", i+2)
		}
		draw, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("machines CSV row %d: invalid power_mw: %s", i+2, record[1])
		}
		if draw.IsNegative() {
			return nil, fmt.Errorf("machines CSV row %d: power_mw cannot be negative: %s", i+2, record[1])
		}
		power[entities.MachineName(name)] = draw.InexactFloat64()
	}
	return power, nil
}

// LoadResources loads raw resource availabilities from a CSV file
func (l *Loader) LoadResources(filename string) (map[entities.ItemName]float64, error) {
	var availability map[entities.ItemName]float64
	err := withFile(filename, "resources", func(r io.Reader) error {
		var err error
		availability, err = l.ReadResources(r)
		return err
	})
	return availability, err
}

// ReadResources parses raw resource availabilities; "inf" marks an unlimited resource
func (l *Loader) ReadResources(r io.Reader) (map[entities.ItemName]float64, error) {
	records, err := readRecords(r, "resources", ResourcesHeader)
	if err != nil {
		return nil, err
	}

	availability := make(map[entities.ItemName]float64, len(records))
	for i, record := range records {
		name := strings.TrimSpace(record[0])
		if name == "" {
			return nil, fmt.Errorf("resources CSV row %d: resource name cannot be empty", i+2)
		}
		if _, exists := availability[entities.ItemName(name)]; exists {
			return nil, fmt.Errorf("resources CSV row %d: duplicate resource %s", i+2, name)
		}
		amount, err := parseAvailability(record[1])
		if err != nil {
			return nil, fmt.Errorf("resources CSV row %d: %w", i+2, err)
		}
		availability[entities.ItemName(name)] = amount
	}
	return availability, nil
}

// LoadDemands loads requested output rates from a CSV file
func (l *Loader) LoadDemands(filename string) ([]*entities.Demand, error) {
	var demands []*entities.Demand
	err := withFile(filename, "demands", func(r io.Reader) error {
		var err error
		demands, err = l.ReadDemands(r)
		return err
	})
	return demands, err
}

// ReadDemands parses requested outputs; an empty rate means the default rate
func (l *Loader) ReadDemands(r io.Reader) ([]*entities.Demand, error) {
	records, err := readRecords(r, "demands", DemandsHeader)
	if err != nil {
		return nil, err
	}

	demands := make([]*entities.Demand, 0, len(records))
	for i, record := range records {
		rate := entities.DefaultDemandRate
		if raw := strings.TrimSpace(record[1]); raw != "" {
			parsed, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("demands CSV row %d: invalid rate_per_min: %s", i+2, raw)
			}
			rate = parsed.InexactFloat64()
		}

		demand, err := entities.NewDemand(entities.ItemName(strings.TrimSpace(record[0])), rate)
		if err != nil {
			return nil, fmt.Errorf("demands CSV row %d: %w", i+2, err)
		}
		demands = append(demands, demand)
	}
	return demands, nil
}

// Helper functions for parsing CSV records

func withFile(filename, kind string, read func(io.Reader) error) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()
	return read(file)
}

// readRecords validates the header and returns the data rows
func readRecords(r io.Reader, kind string, expectedHeader []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(expectedHeader)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}
	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseRecipe(record []string) (*entities.Recipe, error) {
	timeMs, err := parseSeconds(record[2])
	if err != nil {
		return nil, err
	}

	inputs, err := ParseStacks(record[3])
	if err != nil {
		return nil, fmt.Errorf("invalid inputs: %w", err)
	}

	outputs, err := ParseStacks(record[4])
	if err != nil {
		return nil, fmt.Errorf("invalid outputs: %w", err)
	}

	enabled, err := parseEnabled(record[5])
	if err != nil {
		return nil, err
	}

	return entities.NewRecipe(
		strings.TrimSpace(record[0]),
		inputs,
		outputs,
		entities.MachineName(strings.TrimSpace(record[1])),
		timeMs,
		enabled,
	)
}

// parseSeconds converts decimal seconds to whole milliseconds
func parseSeconds(s string) (uint32, error) {
	seconds, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time_seconds: %s", s)
	}

	ms := seconds.Mul(millisPerSecond).Round(0)
	if !ms.IsPositive() || ms.GreaterThan(decimal.NewFromInt(math.MaxUint32)) {
		return 0, fmt.Errorf("time_seconds out of range: %s", s)
	}
	return uint32(ms.IntPart()), nil
}

// ParseStacks parses "Item:qty;Item:qty". An empty string means no stacks.
func ParseStacks(s string) ([]entities.ItemStack, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ";")
	stacks := make([]entities.ItemStack, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		sep := strings.LastIndex(part, ":")
		if sep < 0 {
			return nil, fmt.Errorf("stack %q must be Item:quantity", part)
		}

		qty, err := decimal.NewFromString(strings.TrimSpace(part[sep+1:]))
		if err != nil || !qty.IsInteger() || !qty.IsPositive() || qty.GreaterThan(decimal.NewFromInt(math.MaxUint32)) {
			return nil, fmt.Errorf("stack %q must have a positive whole quantity", part)
		}

		stack, err := entities.NewItemStack(entities.ItemName(strings.TrimSpace(part[:sep])), uint32(qty.IntPart()))
		if err != nil {
			return nil, err
		}
		stacks = append(stacks, *stack)
	}
	return stacks, nil
}

// FormatStacks renders stacks in the form ParseStacks reads
func FormatStacks(stacks []entities.ItemStack) string {
	parts := make([]string, len(stacks))
	for i, stack := range stacks {
		parts[i] = fmt.Sprintf("%s:%d", stack.Item, stack.Quantity)
	}
	return strings.Join(parts, ";")
}

func parseEnabled(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid enabled: %s (expected: true or false)", s)
	}
}

func parseAvailability(s string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inf", "infinite", "unlimited":
		return math.Inf(1), nil
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid availability: %s (expected a number or inf)", s)
	}
	return amount.InexactFloat64(), nil
}
