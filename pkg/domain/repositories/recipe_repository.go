package repositories

import "github.com/vsinha/factoryplan/pkg/domain/entities"

// RecipeRepository provides access to the recipe catalog
type RecipeRepository interface {
	// GetAllRecipes returns the catalog in its original order.
	GetAllRecipes() ([]entities.Recipe, error)
	GetRecipe(name string) (*entities.Recipe, error)
	// GetRecipesForOutput returns every recipe producing the item, in catalog order.
	GetRecipesForOutput(item entities.ItemName) ([]*entities.Recipe, error)
	LoadRecipes(recipes []*entities.Recipe) error

	// Enabled-set management

	SetEnabled(name string, enabled bool) error
	EnabledSet() entities.EnabledSet

	// SearchProducts returns distinct output items containing the query, ignoring case,
	// in catalog order and skipping anything in exclude.
	SearchProducts(query string, exclude map[entities.ItemName]bool) []entities.ItemName
}
