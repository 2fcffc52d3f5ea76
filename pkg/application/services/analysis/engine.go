package analysis

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

// DefaultThreshold is the absolute change below which a cost counts as converged
const DefaultThreshold = 1e-6

// DefaultMaxPasses bounds relaxation passes when EngineConfig.MaxPasses is zero
const DefaultMaxPasses = 10000

// EngineConfig holds configuration for cost propagation
type EngineConfig struct {
	// Threshold is the minimum improvement that counts as a change
	Threshold float64
	// MaxPasses bounds the number of full relaxation passes (0 = DefaultMaxPasses)
	MaxPasses int
	// EnabledOnly restricts propagation to recipes whose Enabled flag is set
	EnabledOnly bool
}

// Stats describes one propagation run
type Stats struct {
	Passes         int
	Relaxations    int
	SkippedRecipes int
	ExcludedRaw    int
	ResolvedItems  int
	Converged      bool
}

// Engine computes weight-point and power costs by least-fixed-point relaxation
type Engine struct {
	config EngineConfig
	logger *slog.Logger
}

// NewEngine creates an engine with default configuration
func NewEngine() *Engine {
	return NewEngineWithConfig(EngineConfig{Threshold: DefaultThreshold}, nil)
}

// NewEngineWithConfig creates an engine with custom configuration
func NewEngineWithConfig(config EngineConfig, logger *slog.Logger) *Engine {
	if config.Threshold <= 0 {
		config.Threshold = DefaultThreshold
	}
	if config.MaxPasses <= 0 {
		config.MaxPasses = DefaultMaxPasses
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{config: config, logger: logger}
}

// Config returns the effective engine configuration
func (e *Engine) Config() EngineConfig {
	return e.config
}

// ComputeItemAnalysis assigns every item reachable from raw resources its minimal
// weight point and power per unit, plus a per-recipe breakdown.
// Items that cannot be resolved are absent from the result. The only error is a raw
// resource table whose reference availability cannot be determined.
func (e *Engine) ComputeItemAnalysis(
	recipes []entities.Recipe,
	machinePower entities.MachinePowerMap,
	raw *entities.RawResourceTable,
) (entities.AnalysisMap, Stats, error) {
	baselines, err := raw.Baselines()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to derive raw resource baselines: %w", err)
	}

	var stats Stats
	usable := e.usableRecipes(recipes, raw, &stats)
	costs := seedCosts(recipes, baselines)

	for pass := 1; ; pass++ {
		if pass > e.config.MaxPasses {
			e.logger.Warn("cost propagation stopped before converging",
				"max_passes", e.config.MaxPasses,
				"relaxations", stats.Relaxations)
			break
		}
		stats.Passes = pass

		changed := false
		for _, recipe := range usable {
			for _, out := range recipe.Outputs {
				wp, power, ok := costs.candidate(recipe, out, machinePower)
				if !ok {
					continue
				}
				if wp < costs.wp[out.Item]-e.config.Threshold {
					costs.wp[out.Item] = wp
					stats.Relaxations++
					changed = true
				}
				if power < costs.power[out.Item]-e.config.Threshold {
					costs.power[out.Item] = power
					stats.Relaxations++
					changed = true
				}
			}
		}

		if !changed {
			stats.Converged = true
			break
		}
	}

	result := costs.collect(usable, machinePower)
	stats.ResolvedItems = len(result)

	e.logger.Debug("cost propagation finished",
		"passes", stats.Passes,
		"relaxations", stats.Relaxations,
		"resolved_items", stats.ResolvedItems,
		"skipped_recipes", stats.SkippedRecipes,
		"excluded_raw_recipes", stats.ExcludedRaw)

	return result, stats, nil
}

// usableRecipes drops malformed recipes and any recipe that outputs a raw resource
func (e *Engine) usableRecipes(
	recipes []entities.Recipe,
	raw *entities.RawResourceTable,
	stats *Stats,
) []*entities.Recipe {
	usable := make([]*entities.Recipe, 0, len(recipes))
	for i := range recipes {
		recipe := &recipes[i]
		if e.config.EnabledOnly && !recipe.Enabled {
			continue
		}
		if err := recipe.Validate(); err != nil {
			stats.SkippedRecipes++
			e.logger.Warn("skipping malformed recipe", "recipe", recipe.Name, "error", err)
			continue
		}
		if outputsRawResource(recipe, raw) {
			stats.ExcludedRaw++
			continue
		}
		usable = append(usable, recipe)
	}
	return usable
}

func outputsRawResource(recipe *entities.Recipe, raw *entities.RawResourceTable) bool {
	for _, out := range recipe.Outputs {
		if raw.IsRaw(out.Item) {
			return true
		}
	}
	return false
}

// costTable holds the current per-unit estimates; +Inf means unknown
type costTable struct {
	wp    map[entities.ItemName]float64
	power map[entities.ItemName]float64
}

// seedCosts gives raw resources their baseline and every other item +Inf
func seedCosts(recipes []entities.Recipe, baselines map[entities.ItemName]float64) *costTable {
	costs := &costTable{
		wp:    make(map[entities.ItemName]float64, len(baselines)),
		power: make(map[entities.ItemName]float64, len(baselines)),
	}
	for item, base := range baselines {
		costs.wp[item] = base
		costs.power[item] = 0
	}

	unknown := func(item entities.ItemName) {
		if _, seeded := costs.wp[item]; !seeded {
			costs.wp[item] = math.Inf(1)
			costs.power[item] = math.Inf(1)
		}
	}
	for _, recipe := range recipes {
		for _, in := range recipe.Inputs {
			unknown(in.Item)
		}
		for _, out := range recipe.Outputs {
			unknown(out.Item)
		}
	}
	return costs
}

func (c *costTable) known(item entities.ItemName) bool {
	wp, ok := c.wp[item]
	if !ok || math.IsInf(wp, 1) {
		return false
	}
	return !math.IsInf(c.power[item], 1)
}

// candidate computes the per-unit cost of out via recipe, or false if any input is unresolved
func (c *costTable) candidate(
	recipe *entities.Recipe,
	out entities.ItemStack,
	machinePower entities.MachinePowerMap,
) (float64, float64, bool) {
	outQty := float64(out.Quantity)
	var wp, power float64
	for _, in := range recipe.Inputs {
		if !c.known(in.Item) {
			return 0, 0, false
		}
		share := float64(in.Quantity) / outQty
		wp += c.wp[in.Item] * share
		power += c.power[in.Item] * share
	}
	power += machinePower.Draw(recipe.Machine.Name) * recipe.Seconds() / outQty
	return wp, power, true
}

// collect builds the final analysis map, recording every resolvable recipe per item
func (c *costTable) collect(
	usable []*entities.Recipe,
	machinePower entities.MachinePowerMap,
) entities.AnalysisMap {
	result := make(entities.AnalysisMap)
	for item := range c.wp {
		if !c.known(item) {
			continue
		}
		result[item] = &entities.ItemAnalysis{
			WP:              c.wp[item],
			Power:           c.power[item],
			RecipeBreakdown: []entities.RecipeAnalysis{},
		}
	}

	for _, recipe := range usable {
		seen := make(map[entities.ItemName]bool, len(recipe.Outputs))
		for _, out := range recipe.Outputs {
			if seen[out.Item] {
				continue
			}
			seen[out.Item] = true

			wp, power, ok := c.candidate(recipe, out, machinePower)
			if !ok {
				continue
			}
			analysis, exists := result[out.Item]
			if !exists {
				continue
			}
			analysis.RecipeBreakdown = append(analysis.RecipeBreakdown, c.recipeAnalysis(recipe, out, wp, power))
		}
	}
	return result
}

func (c *costTable) recipeAnalysis(
	recipe *entities.Recipe,
	out entities.ItemStack,
	wp, power float64,
) entities.RecipeAnalysis {
	outQty := float64(out.Quantity)
	inputs := make([]entities.InputAnalysis, 0, len(recipe.Inputs))
	for _, in := range recipe.Inputs {
		inputs = append(inputs, entities.InputAnalysis{
			Item:         in.Item,
			Quantity:     float64(in.Quantity) / outQty,
			WPPerItem:    c.wp[in.Item],
			PowerPerItem: c.power[in.Item],
		})
	}

	perSecond := outQty / recipe.Seconds()
	return entities.RecipeAnalysis{
		RecipeName: recipe.Name,
		Inputs:     inputs,
		WP:         wp,
		Power:      power,
		Rate:       perSecond * 60,
		WPFlow:     c.wp[out.Item] * perSecond,
	}
}

// ComputeItemAnalysis runs a default engine over the catalog
func ComputeItemAnalysis(
	recipes []entities.Recipe,
	machinePower entities.MachinePowerMap,
	raw *entities.RawResourceTable,
) (entities.AnalysisMap, error) {
	result, _, err := NewEngine().ComputeItemAnalysis(recipes, machinePower, raw)
	return result, err
}
