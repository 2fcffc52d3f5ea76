package breakdown

import (
	"fmt"
	"strings"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

// RecipeSelector chooses which recipe expands a product.
// Candidates are the enabled producers of the product in catalog order and never empty.
type RecipeSelector interface {
	Select(product entities.ItemName, candidates []*entities.Recipe) *entities.Recipe
	Name() string
}

// CatalogOrder picks the first enabled recipe in catalog order
type CatalogOrder struct{}

// Select returns the first candidate
func (CatalogOrder) Select(_ entities.ItemName, candidates []*entities.Recipe) *entities.Recipe {
	return candidates[0]
}

// Name returns the strategy name
func (CatalogOrder) Name() string { return "catalog" }

// LowestCost picks the candidate with the lowest per-unit wp according to a cost analysis.
// Ties keep catalog order; candidates missing from the analysis are never preferred.
type LowestCost struct {
	Analysis entities.AnalysisMap
}

// NewLowestCost creates a cost-driven selector
func NewLowestCost(analysis entities.AnalysisMap) *LowestCost {
	return &LowestCost{Analysis: analysis}
}

// Select returns the cheapest resolvable candidate, or the first one when none resolve
func (s *LowestCost) Select(product entities.ItemName, candidates []*entities.Recipe) *entities.Recipe {
	item, ok := s.Analysis[product]
	if !ok {
		return candidates[0]
	}

	costs := make(map[string]float64, len(item.RecipeBreakdown))
	for _, ra := range item.RecipeBreakdown {
		costs[ra.RecipeName] = ra.WP
	}

	var best *entities.Recipe
	bestCost := 0.0
	for _, candidate := range candidates {
		cost, resolved := costs[candidate.Name]
		if !resolved {
			continue
		}
		if best == nil || cost < bestCost {
			best = candidate
			bestCost = cost
		}
	}

	if best == nil {
		return candidates[0]
	}
	return best
}

// Name returns the strategy name
func (s *LowestCost) Name() string { return "cheapest" }

// Pinned honors a per-product recipe choice and defers to Fallback for everything else
type Pinned struct {
	Pins     map[entities.ItemName]string
	Fallback RecipeSelector
}

// NewPinned creates a selector with explicit recipe pins
func NewPinned(pins map[entities.ItemName]string, fallback RecipeSelector) *Pinned {
	if fallback == nil {
		fallback = CatalogOrder{}
	}
	return &Pinned{Pins: pins, Fallback: fallback}
}

// Select returns the pinned recipe when it is among the candidates
func (s *Pinned) Select(product entities.ItemName, candidates []*entities.Recipe) *entities.Recipe {
	if name, ok := s.Pins[product]; ok {
		for _, candidate := range candidates {
			if candidate.Name == name {
				return candidate
			}
		}
	}
	return s.Fallback.Select(product, candidates)
}

// Name returns the strategy name
func (s *Pinned) Name() string { return "pinned+" + s.Fallback.Name() }

// ParsePins parses "Product=Recipe" pairs
func ParsePins(pairs []string) (map[entities.ItemName]string, error) {
	pins := make(map[entities.ItemName]string, len(pairs))
	for _, pair := range pairs {
		product, recipe, found := strings.Cut(pair, "=")
		product = strings.TrimSpace(product)
		recipe = strings.TrimSpace(recipe)
		if !found || product == "" || recipe == "" {
			return nil, fmt.Errorf("invalid recipe pin %q (expected Product=Recipe)", pair)
		}
		pins[entities.ItemName(product)] = recipe
	}
	return pins, nil
}
