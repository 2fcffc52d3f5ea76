package entities

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Recipe converts input stacks into output stacks over a fixed duration on a machine
type Recipe struct {
	Name    string      `json:"name" validate:"required"`
	Inputs  []ItemStack `json:"inputs" validate:"omitempty,dive"`
	Outputs []ItemStack `json:"outputs" validate:"required,min=1,dive"`
	Machine Machine     `json:"machine"`
	TimeMs  uint32      `json:"time_ms" validate:"gt=0"`
	Enabled bool        `json:"enabled"`
}

var (
	validateOnce sync.Once
	recipeCheck  *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		recipeCheck = validator.New()
	})
	return recipeCheck
}

// NewRecipe creates a validated Recipe
func NewRecipe(
	name string,
	inputs, outputs []ItemStack,
	machine MachineName,
	timeMs uint32,
	enabled bool,
) (*Recipe, error) {
	recipe := &Recipe{
		Name:    name,
		Inputs:  inputs,
		Outputs: outputs,
		Machine: Machine{Name: machine},
		TimeMs:  timeMs,
		Enabled: enabled,
	}
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	return recipe, nil
}

// Validate reports whether the recipe is well-formed enough to enter the analysis engine.
// A zero craft time or a zero-quantity stack would produce infinite rates.
func (r *Recipe) Validate() error {
	err := structValidator().Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRecipe, r.Name, err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describeFieldError(fe))
	}
	name := r.Name
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidRecipe, name, strings.Join(problems, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Recipe.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be positive", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s entry", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// Produces reports whether the item appears in the recipe's outputs
func (r *Recipe) Produces(item ItemName) bool {
	for _, out := range r.Outputs {
		if out.Item == item {
			return true
		}
	}
	return false
}

// OutputQuantity returns the per-cycle quantity of the item in the outputs, zero if absent
func (r *Recipe) OutputQuantity(item ItemName) uint32 {
	for _, out := range r.Outputs {
		if out.Item == item {
			return out.Quantity
		}
	}
	return 0
}

// Seconds returns the craft time in seconds
func (r *Recipe) Seconds() float64 {
	return float64(r.TimeMs) / 1000.0
}

// ItemsPerMinute returns the rate at which one machine moves the stack's item
func (r *Recipe) ItemsPerMinute(stack ItemStack) float64 {
	if r.TimeMs == 0 {
		return 0
	}
	return float64(stack.Quantity) * 60000.0 / float64(r.TimeMs)
}

// RecipeIndex groups recipes by the items they output, preserving catalog order
type RecipeIndex map[ItemName][]*Recipe

// IndexByOutput builds a RecipeIndex over the catalog
func IndexByOutput(recipes []Recipe) RecipeIndex {
	index := make(RecipeIndex)
	for i := range recipes {
		for _, out := range recipes[i].Outputs {
			existing := index[out.Item]
			if n := len(existing); n > 0 && existing[n-1] == &recipes[i] {
				continue
			}
			index[out.Item] = append(existing, &recipes[i])
		}
	}
	return index
}

// EnabledSet is the set of recipe names active for planning
type EnabledSet map[string]struct{}

// EnabledFromCatalog returns the names of recipes whose Enabled flag is set
func EnabledFromCatalog(recipes []Recipe) EnabledSet {
	set := make(EnabledSet, len(recipes))
	for _, r := range recipes {
		if r.Enabled {
			set[r.Name] = struct{}{}
		}
	}
	return set
}

// NewEnabledSet builds an EnabledSet from recipe names
func NewEnabledSet(names ...string) EnabledSet {
	set := make(EnabledSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Contains reports whether the recipe name is enabled
func (s EnabledSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}
