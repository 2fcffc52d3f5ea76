package services

import (
	"fmt"
	"sort"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

// RecipeValidator checks a recipe catalog for structural problems
type RecipeValidator struct{}

// NewRecipeValidator creates a new recipe validator
func NewRecipeValidator() *RecipeValidator {
	return &RecipeValidator{}
}

// ValidationResult contains the results of catalog validation.
// Errors make a catalog unusable; warnings describe data the planner tolerates.
type ValidationResult struct {
	HasCycles        bool
	CyclePaths       [][]entities.ItemName
	InvalidRecipes   []string
	DuplicateRecipes []string
	RawOutputRecipes []string
	Errors           []string
	Warnings         []string
}

// IsValid reports whether the catalog has no hard errors
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ValidateCatalog performs comprehensive validation on a recipe catalog
func (v *RecipeValidator) ValidateCatalog(recipes []entities.Recipe, raw *entities.RawResourceTable) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:       make([][]entities.ItemName, 0),
		InvalidRecipes:   make([]string, 0),
		DuplicateRecipes: make([]string, 0),
		RawOutputRecipes: make([]string, 0),
		Errors:           make([]string, 0),
		Warnings:         make([]string, 0),
	}

	seen := make(map[string]bool, len(recipes))
	for _, recipe := range recipes {
		if seen[recipe.Name] {
			result.DuplicateRecipes = append(result.DuplicateRecipes, recipe.Name)
			result.Errors = append(result.Errors, fmt.Sprintf("duplicate recipe name: %s", recipe.Name))
		}
		seen[recipe.Name] = true

		if err := recipe.Validate(); err != nil {
			result.InvalidRecipes = append(result.InvalidRecipes, recipe.Name)
			result.Warnings = append(result.Warnings, err.Error())
			continue
		}

		for _, out := range recipe.Outputs {
			if raw.IsRaw(out.Item) {
				result.RawOutputRecipes = append(result.RawOutputRecipes, recipe.Name)
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("recipe %s outputs raw resource %s and is excluded from cost propagation", recipe.Name, out.Item))
				break
			}
		}
	}

	if raw != nil {
		if err := raw.Validate(); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
	}

	cycles := v.detectCycles(v.buildAdjacencyMap(recipes))
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles
	for _, cycle := range cycles {
		result.Warnings = append(result.Warnings, fmt.Sprintf("recipe cycle detected: %v", cycle))
	}

	return result
}

// buildAdjacencyMap creates a map of product -> input items over well-formed recipes
func (v *RecipeValidator) buildAdjacencyMap(recipes []entities.Recipe) map[entities.ItemName][]entities.ItemName {
	adjacencyMap := make(map[entities.ItemName][]entities.ItemName)

	for _, recipe := range recipes {
		if recipe.Validate() != nil {
			continue
		}
		for _, out := range recipe.Outputs {
			for _, in := range recipe.Inputs {
				adjacencyMap[out.Item] = appendUnique(adjacencyMap[out.Item], in.Item)
			}
		}
	}

	return adjacencyMap
}

func appendUnique(items []entities.ItemName, item entities.ItemName) []entities.ItemName {
	for _, existing := range items {
		if existing == item {
			return items
		}
	}
	return append(items, item)
}

// detectCycles uses DFS to find cycles, starting from products in name order
func (v *RecipeValidator) detectCycles(adjacencyMap map[entities.ItemName][]entities.ItemName) [][]entities.ItemName {
	visited := make(map[entities.ItemName]bool)
	recursionStack := make(map[entities.ItemName]bool)
	cycles := make([][]entities.ItemName, 0)

	products := make([]entities.ItemName, 0, len(adjacencyMap))
	for product := range adjacencyMap {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i] < products[j] })

	for _, product := range products {
		if !visited[product] {
			v.dfsDetectCycle(product, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

// dfsDetectCycle performs depth-first search and records each back-edge as a closed path
func (v *RecipeValidator) dfsDetectCycle(
	current entities.ItemName,
	adjacencyMap map[entities.ItemName][]entities.ItemName,
	visited map[entities.ItemName]bool,
	recursionStack map[entities.ItemName]bool,
	path []entities.ItemName,
	cycles *[][]entities.ItemName,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, input := range adjacencyMap[current] {
		if !visited[input] {
			v.dfsDetectCycle(input, adjacencyMap, visited, recursionStack, path, cycles)
			continue
		}
		if !recursionStack[input] {
			continue
		}
		for i, item := range path {
			if item == input {
				cycle := make([]entities.ItemName, 0, len(path)-i+1)
				cycle = append(cycle, path[i:]...)
				cycle = append(cycle, input)
				*cycles = append(*cycles, cycle)
				break
			}
		}
	}

	recursionStack[current] = false
}
