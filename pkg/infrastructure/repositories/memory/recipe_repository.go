package memory

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/domain/repositories"
)

// RecipeRepository provides in-memory recipe catalog storage. It is safe for
// concurrent use, so recipes can be toggled while a plan is being built.
type RecipeRepository struct {
	mutex         sync.RWMutex
	recipes       []entities.Recipe
	recipesByName map[string]int
	outputIndexes map[entities.ItemName][]int
}

// NewRecipeRepository creates a recipe repository sized for the expected catalog
func NewRecipeRepository(expectedRecipes int) *RecipeRepository {
	return &RecipeRepository{
		recipes:       make([]entities.Recipe, 0, expectedRecipes),
		recipesByName: make(map[string]int, expectedRecipes),
		outputIndexes: make(map[entities.ItemName][]int, expectedRecipes),
	}
}

// Verify interface compliance
var _ repositories.RecipeRepository = (*RecipeRepository)(nil)

// LoadRecipes loads recipes into the repository, keeping catalog order
func (r *RecipeRepository) LoadRecipes(recipes []*entities.Recipe) error {
	for _, recipe := range recipes {
		if err := r.AddRecipe(*recipe); err != nil {
			return err
		}
	}
	return nil
}

// AddRecipe appends a recipe to the catalog
func (r *RecipeRepository) AddRecipe(recipe entities.Recipe) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.recipesByName[recipe.Name]; exists {
		return fmt.Errorf("%w: %s", entities.ErrDuplicateRecipe, recipe.Name)
	}

	index := len(r.recipes)
	r.recipes = append(r.recipes, recipe)
	r.recipesByName[recipe.Name] = index

	seen := make(map[entities.ItemName]bool, len(recipe.Outputs))
	for _, out := range recipe.Outputs {
		if seen[out.Item] {
			continue
		}
		seen[out.Item] = true
		r.outputIndexes[out.Item] = append(r.outputIndexes[out.Item], index)
	}
	return nil
}

// GetAllRecipes returns a copy of the catalog in its original order
func (r *RecipeRepository) GetAllRecipes() ([]entities.Recipe, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	recipes := make([]entities.Recipe, len(r.recipes))
	copy(recipes, r.recipes)
	return recipes, nil
}

// GetRecipe returns a recipe by name
func (r *RecipeRepository) GetRecipe(name string) (*entities.Recipe, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	index, exists := r.recipesByName[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrRecipeNotFound, name)
	}
	recipe := r.recipes[index]
	return &recipe, nil
}

// GetRecipesForOutput returns all recipes producing an item
func (r *RecipeRepository) GetRecipesForOutput(item entities.ItemName) ([]*entities.Recipe, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	indexes, exists := r.outputIndexes[item]
	if !exists {
		return []*entities.Recipe{}, nil
	}

	recipes := make([]*entities.Recipe, 0, len(indexes))
	for _, index := range indexes {
		recipe := r.recipes[index]
		recipes = append(recipes, &recipe)
	}
	return recipes, nil
}

// SetEnabled toggles whether a recipe takes part in planning
func (r *RecipeRepository) SetEnabled(name string, enabled bool) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	index, exists := r.recipesByName[name]
	if !exists {
		return fmt.Errorf("%w: %s", entities.ErrRecipeNotFound, name)
	}
	r.recipes[index].Enabled = enabled
	return nil
}

// EnabledSet returns the names of currently enabled recipes
func (r *RecipeRepository) EnabledSet() entities.EnabledSet {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return entities.EnabledFromCatalog(r.recipes)
}

// SearchProducts implements product autocomplete over recipe outputs
func (r *RecipeRepository) SearchProducts(query string, exclude map[entities.ItemName]bool) []entities.ItemName {
	if query == "" {
		return nil
	}

	fold := cases.Fold()
	needle := fold.String(query)

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var results []entities.ItemName
	seen := make(map[entities.ItemName]bool)
	for _, recipe := range r.recipes {
		for _, out := range recipe.Outputs {
			if seen[out.Item] || exclude[out.Item] {
				continue
			}
			if strings.Contains(fold.String(string(out.Item)), needle) {
				seen[out.Item] = true
				results = append(results, out.Item)
			}
		}
	}
	return results
}

// Count returns the number of recipes in the catalog
func (r *RecipeRepository) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.recipes)
}
