package entities

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecipe_Valid(t *testing.T) {
	recipe, err := NewRecipe(
		"Iron Ingot",
		[]ItemStack{{Item: "Iron Ore", Quantity: 2}},
		[]ItemStack{{Item: "Iron Ingot", Quantity: 1}},
		"Smelter",
		2000,
		true,
	)
	require.NoError(t, err)

	assert.Equal(t, MachineName("Smelter"), recipe.Machine.Name)
	assert.True(t, recipe.Produces("Iron Ingot"))
	assert.False(t, recipe.Produces("Iron Ore"))
	assert.Equal(t, uint32(1), recipe.OutputQuantity("Iron Ingot"))
	assert.Equal(t, uint32(0), recipe.OutputQuantity("Copper Ingot"))
	assert.InDelta(t, 2.0, recipe.Seconds(), 1e-12)
	assert.InDelta(t, 30.0, recipe.ItemsPerMinute(recipe.Outputs[0]), 1e-12)
	assert.InDelta(t, 60.0, recipe.ItemsPerMinute(recipe.Inputs[0]), 1e-12)
}

func TestNewRecipe_Invalid(t *testing.T) {
	ore := []ItemStack{{Item: "Iron Ore", Quantity: 1}}
	ingot := []ItemStack{{Item: "Iron Ingot", Quantity: 1}}

	testCases := []struct {
		name     string
		recipe   string
		inputs   []ItemStack
		outputs  []ItemStack
		timeMs   uint32
		contains string
	}{
		{"empty name", "", ore, ingot, 1000, "Name is required"},
		{"zero time", "Ingot", ore, ingot, 0, "TimeMs must be positive"},
		{"no outputs", "Ingot", ore, nil, 1000, "Outputs is required"},
		{"zero output quantity", "Ingot", ore, []ItemStack{{Item: "Iron Ingot"}}, 1000, "Outputs[0].Quantity must be positive"},
		{"zero input quantity", "Ingot", []ItemStack{{Item: "Iron Ore"}}, ingot, 1000, "Inputs[0].Quantity must be positive"},
		{"empty output item", "Ingot", ore, []ItemStack{{Quantity: 1}}, 1000, "Outputs[0].Item is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRecipe(tc.recipe, tc.inputs, tc.outputs, "Smelter", tc.timeMs, true)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRecipe), "expected ErrInvalidRecipe, got %v", err)
			assert.True(t, strings.Contains(err.Error(), tc.contains), "expected %q in %q", tc.contains, err.Error())
		})
	}
}

func TestRecipe_NoInputsIsValid(t *testing.T) {
	_, err := NewRecipe("Mine Ore", nil, []ItemStack{{Item: "Iron Ore", Quantity: 1}}, "Miner", 1000, true)
	assert.NoError(t, err)
}

func TestIndexByOutput_PreservesCatalogOrder(t *testing.T) {
	recipes := []Recipe{
		{Name: "Alt Plate", Outputs: []ItemStack{{Item: "Plate", Quantity: 3}}, TimeMs: 1000},
		{Name: "Screw", Outputs: []ItemStack{{Item: "Screw", Quantity: 4}}, TimeMs: 1000},
		{Name: "Plate", Outputs: []ItemStack{{Item: "Plate", Quantity: 1}, {Item: "Slag", Quantity: 1}}, TimeMs: 1000},
	}

	index := IndexByOutput(recipes)

	require.Len(t, index["Plate"], 2)
	assert.Equal(t, "Alt Plate", index["Plate"][0].Name)
	assert.Equal(t, "Plate", index["Plate"][1].Name)
	require.Len(t, index["Slag"], 1)
	assert.Same(t, &recipes[2], index["Slag"][0])
	assert.Empty(t, index["Iron Ore"])
}

func TestIndexByOutput_RepeatedOutputListedOnce(t *testing.T) {
	recipes := []Recipe{
		{Name: "Odd", Outputs: []ItemStack{{Item: "Plate", Quantity: 1}, {Item: "Plate", Quantity: 2}}, TimeMs: 1000},
	}

	index := IndexByOutput(recipes)
	assert.Len(t, index["Plate"], 1)
}

func TestEnabledFromCatalog(t *testing.T) {
	recipes := []Recipe{
		{Name: "Iron Ingot", Enabled: true},
		{Name: "Alternate: Pure Iron Ingot", Enabled: false},
	}

	enabled := EnabledFromCatalog(recipes)

	assert.True(t, enabled.Contains("Iron Ingot"))
	assert.False(t, enabled.Contains("Alternate: Pure Iron Ingot"))
	assert.True(t, NewEnabledSet("a", "b").Contains("b"))
}
