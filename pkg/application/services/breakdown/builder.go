package breakdown

import (
	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

// Builder expands demanded rates into production trees
type Builder struct {
	producers entities.RecipeIndex
	raw       *entities.RawResourceTable
	selector  RecipeSelector
}

// NewBuilder creates a builder over the enabled, well-formed recipes of a catalog.
// A nil selector means CatalogOrder.
func NewBuilder(
	recipes []entities.Recipe,
	enabled entities.EnabledSet,
	raw *entities.RawResourceTable,
	selector RecipeSelector,
) *Builder {
	if selector == nil {
		selector = CatalogOrder{}
	}

	candidates := make([]entities.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if !enabled.Contains(recipe.Name) {
			continue
		}
		if recipe.Validate() != nil {
			continue
		}
		candidates = append(candidates, recipe)
	}

	return &Builder{
		producers: entities.IndexByOutput(candidates),
		raw:       raw,
		selector:  selector,
	}
}

// Selector returns the recipe selection strategy in use
func (b *Builder) Selector() RecipeSelector {
	return b.selector
}

// Build expands a single demand into its production tree
func (b *Builder) Build(product entities.ItemName, rate float64) entities.BreakdownNode {
	return b.expand(product, rate, make(map[entities.ItemName]bool))
}

// BuildForest builds one tree per demand, in request order
func (b *Builder) BuildForest(demands entities.DemandList) []entities.BreakdownNode {
	forest := make([]entities.BreakdownNode, 0, len(demands))
	for _, demand := range demands {
		forest = append(forest, b.Build(demand.Product, demand.Rate))
	}
	return forest
}

// expand resolves product at rate; path holds the products on the current root-to-node path
func (b *Builder) expand(product entities.ItemName, rate float64, path map[entities.ItemName]bool) entities.BreakdownNode {
	node := entities.BreakdownNode{Product: product, Rate: rate}

	if path[product] {
		cycle := entities.CycleRecipeName
		node.RecipeName = &cycle
		return node
	}

	if b.raw.IsRaw(product) {
		return node
	}

	recipe := b.selectRecipe(product)
	if recipe == nil {
		return node
	}

	path[product] = true
	defer delete(path, product)

	outQty := float64(recipe.OutputQuantity(product))
	itemsPerMinute := outQty * 60000 / float64(recipe.TimeMs)
	machinesNeeded := rate / itemsPerMinute

	children := make([]entities.BreakdownNode, 0, len(recipe.Inputs))
	for _, in := range recipe.Inputs {
		inputRate := rate * float64(in.Quantity) / outQty
		children = append(children, b.expand(in.Item, inputRate, path))
	}

	name := recipe.Name
	machine := recipe.Machine.Name
	node.RecipeName = &name
	node.Machine = &machine
	node.MachinesNeeded = &machinesNeeded
	node.Children = children
	return node
}

func (b *Builder) selectRecipe(product entities.ItemName) *entities.Recipe {
	candidates := b.producers[product]
	if len(candidates) == 0 {
		return nil
	}
	return b.selector.Select(product, candidates)
}
