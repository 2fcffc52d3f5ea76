package entities

import "errors"

// Boundary errors. The analysis engine itself never returns these; loaders and
// configuration reject malformed input with them before it reaches the engine.
var (
	ErrInvalidRecipe    = errors.New("invalid recipe")
	ErrDuplicateRecipe  = errors.New("duplicate recipe name")
	ErrUnknownReference = errors.New("unknown reference resource")
	ErrInvalidDemand    = errors.New("invalid demand")
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrDemandNotFound   = errors.New("demand not found")
)
