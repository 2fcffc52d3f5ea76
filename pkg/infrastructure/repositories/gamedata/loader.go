package gamedata

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

// Format identifies the layout of a game data file
type Format int

const (
	FormatUnknown Format = iota
	// FormatDocs is the game's exported class dump: [{NativeClass, Classes: [...]}]
	FormatDocs
	// FormatRecipeList is a flat list: [{className, name, duration, ingredients, products, producedIn, alternate}]
	FormatRecipeList
)

// String returns the format name
func (f Format) String() string {
	switch f {
	case FormatDocs:
		return "docs"
	case FormatRecipeList:
		return "recipe-list"
	default:
		return "unknown"
	}
}

// defaultDurationSeconds applies when a recipe class has no manufacturing duration
const defaultDurationSeconds = "1"

// fluidScale converts fluid amounts, stored in thousandths, to whole units
const fluidScale = 1000

// handCraftMachines produce recipes that never run in a factory
var handCraftMachines = map[string]bool{
	"BP_WorkBenchComponent_C": true,
	"BP_WorkshopComponent_C":  true,
	"BP_BuildGun_C":           true,
	"FGBuildGun":              true,
}

var (
	ingredientPattern = regexp.MustCompile(`ItemClass=\\?"([^"\\]+)\\?",Amount=([0-9.]+)`)
	millisPerSecond   = decimal.NewFromInt(1000)
	maxWhole          = decimal.NewFromInt(math.MaxUint32)
)

// SkippedRecipe records a recipe the loader could not convert
type SkippedRecipe struct {
	Name   string
	Reason string
}

// Catalog is the result of loading a game data file
type Catalog struct {
	Format       Format
	Recipes      []*entities.Recipe
	MachinePower entities.MachinePowerMap
	Skipped      []SkippedRecipe
}

// Loader converts game data JSON into recipes
type Loader struct{}

// NewLoader creates a new game data loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads and parses a game data file
func (l *Loader) LoadFile(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open game data file %s: %w", filename, err)
	}
	catalog, err := l.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse game data file %s: %w", filename, err)
	}
	return catalog, nil
}

// Load parses game data in either supported format
func (l *Loader) Load(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	switch DetectFormat(root) {
	case FormatDocs:
		return l.loadDocs(root), nil
	case FormatRecipeList:
		return l.loadRecipeList(root), nil
	default:
		return nil, fmt.Errorf("unrecognized game data layout (expected an array of class groups or recipes)")
	}
}

// DetectFormat inspects the first array element to pick a layout
func DetectFormat(root gjson.Result) Format {
	if !root.IsArray() {
		return FormatUnknown
	}
	first := root.Get("0")
	switch {
	case first.Get("Classes").IsArray():
		return FormatDocs
	case first.Get("className").Exists():
		return FormatRecipeList
	default:
		return FormatUnknown
	}
}

func (l *Loader) loadDocs(root gjson.Result) *Catalog {
	catalog := &Catalog{
		Format:       FormatDocs,
		MachinePower: entities.MachinePowerMap{},
	}
	displayNames := BuildDisplayNameMap(root)

	root.ForEach(func(_, group gjson.Result) bool {
		group.Get("Classes").ForEach(func(_, class gjson.Result) bool {
			className := class.Get("ClassName").String()
			switch {
			case strings.HasPrefix(className, "Recipe_"):
				l.addDocsRecipe(catalog, class, displayNames)
			case strings.HasPrefix(className, "Build_"):
				addMachinePower(catalog, class, displayNames)
			}
			return true
		})
		return true
	})

	return catalog
}

func (l *Loader) addDocsRecipe(catalog *Catalog, class gjson.Result, displayNames map[string]string) {
	className := class.Get("ClassName").String()
	name := class.Get("mDisplayName").String()
	if name == "" {
		name = className
	}

	var machines []string
	for _, machine := range ParseProducedIn(class.Get("mProducedIn").String()) {
		if !handCraftMachines[machine] {
			machines = append(machines, machine)
		}
	}
	if len(machines) == 0 {
		return
	}

	inputs, err := docsStacks(class.Get("mIngredients").String(), displayNames)
	if err != nil {
		catalog.skip(name, err)
		return
	}
	outputs, err := docsStacks(class.Get("mProduct").String(), displayNames)
	if err != nil {
		catalog.skip(name, err)
		return
	}

	duration := class.Get("mManufactoringDuration").String()
	if strings.TrimSpace(duration) == "" {
		duration = defaultDurationSeconds
	}
	timeMs, err := secondsToMillis(duration)
	if err != nil {
		catalog.skip(name, err)
		return
	}

	recipe, err := entities.NewRecipe(
		name,
		inputs,
		outputs,
		entities.MachineName(lookupName(displayNames, machines[0])),
		timeMs,
		!IsAlternate(name),
	)
	if err != nil {
		catalog.skip(name, err)
		return
	}
	catalog.Recipes = append(catalog.Recipes, recipe)
}

func addMachinePower(catalog *Catalog, class gjson.Result, displayNames map[string]string) {
	power := class.Get("mPowerConsumption")
	if !power.Exists() {
		return
	}
	draw, err := decimal.NewFromString(strings.TrimSpace(power.String()))
	if err != nil || draw.IsNegative() {
		return
	}
	machine := lookupName(displayNames, class.Get("ClassName").String())
	catalog.MachinePower[entities.MachineName(machine)] = draw.InexactFloat64()
}

func docsStacks(tuples string, displayNames map[string]string) ([]entities.ItemStack, error) {
	entries := ParseIngredients(tuples)
	stacks := make([]entities.ItemStack, 0, len(entries))
	for _, entry := range entries {
		item := lookupName(displayNames, entry.ItemClass)
		amount := entry.Amount.Round(0)
		if amount.GreaterThanOrEqual(decimal.NewFromInt(fluidScale)) {
			amount = amount.Div(decimal.NewFromInt(fluidScale)).Truncate(0)
		}
		qty, err := wholeQuantity(item, amount)
		if err != nil {
			return nil, err
		}
		stack, err := entities.NewItemStack(entities.ItemName(item), qty)
		if err != nil {
			return nil, err
		}
		stacks = append(stacks, *stack)
	}
	return stacks, nil
}

func (l *Loader) loadRecipeList(root gjson.Result) *Catalog {
	catalog := &Catalog{
		Format:       FormatRecipeList,
		MachinePower: entities.MachinePowerMap{},
	}

	root.ForEach(func(_, entry gjson.Result) bool {
		name := CleanName(entry.Get("name").String())

		inputs, err := listStacks(entry.Get("ingredients"))
		if err != nil {
			catalog.skip(name, err)
			return true
		}
		outputs, err := listStacks(entry.Get("products"))
		if err != nil {
			catalog.skip(name, err)
			return true
		}

		duration := entry.Get("duration").String()
		if strings.TrimSpace(duration) == "" {
			duration = defaultDurationSeconds
		}
		timeMs, err := secondsToMillis(duration)
		if err != nil {
			catalog.skip(name, err)
			return true
		}

		recipe, err := entities.NewRecipe(
			name,
			inputs,
			outputs,
			entities.MachineName(CleanName(entry.Get("producedIn.0").String())),
			timeMs,
			!entry.Get("alternate").Bool(),
		)
		if err != nil {
			catalog.skip(name, err)
			return true
		}
		catalog.Recipes = append(catalog.Recipes, recipe)
		return true
	})

	return catalog
}

func listStacks(list gjson.Result) ([]entities.ItemStack, error) {
	var stacks []entities.ItemStack
	var err error
	list.ForEach(func(_, v gjson.Result) bool {
		amount, parseErr := decimal.NewFromString(v.Get("amount").String())
		if parseErr != nil {
			err = fmt.Errorf("invalid amount for %s: %s", v.Get("item").String(), v.Get("amount").String())
			return false
		}
		item := CleanName(v.Get("item").String())
		qty, qtyErr := wholeQuantity(item, amount)
		if qtyErr != nil {
			err = qtyErr
			return false
		}
		stack, stackErr := entities.NewItemStack(entities.ItemName(item), qty)
		if stackErr != nil {
			err = stackErr
			return false
		}
		stacks = append(stacks, *stack)
		return true
	})
	return stacks, err
}

func (c *Catalog) skip(name string, err error) {
	c.Skipped = append(c.Skipped, SkippedRecipe{Name: name, Reason: err.Error()})
}

func secondsToMillis(seconds string) (uint32, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(seconds))
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %s", seconds)
	}
	ms := d.Mul(millisPerSecond).Round(0)
	if !ms.IsPositive() || ms.GreaterThan(maxWhole) {
		return 0, fmt.Errorf("%w: duration out of range: %s", entities.ErrInvalidRecipe, seconds)
	}
	return uint32(ms.IntPart()), nil
}

// wholeQuantity rounds a game amount to a stack quantity, rejecting anything
// that is not positive or does not fit in uint32
func wholeQuantity(item string, amount decimal.Decimal) (uint32, error) {
	qty := amount.Round(0)
	if !qty.IsPositive() || qty.GreaterThan(maxWhole) {
		return 0, fmt.Errorf("%w: amount for %s out of range: %s", entities.ErrInvalidRecipe, item, amount.String())
	}
	return uint32(qty.IntPart()), nil
}
