package csv

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

const recipesCSV = `name,machine,time_seconds,inputs,outputs,enabled
Iron Ingot,Smelter,2,Iron Ore:1,Iron Ingot:1,true
"Alternate: Pure Iron Ingot",Refinery,12,Iron Ore:7;Water:4,Iron Ingot:13,false
Iron Plate,Constructor,6,Iron Ingot:3,Iron Plate:2,
Fast Screw,Constructor,0.25,Iron Rod:1,Screw:4,yes
`

func TestLoader_ReadRecipes(t *testing.T) {
	recipes, err := NewLoader().ReadRecipes(strings.NewReader(recipesCSV))
	require.NoError(t, err)
	require.Len(t, recipes, 4)

	ingot := recipes[0]
	assert.Equal(t, "Iron Ingot", ingot.Name)
	assert.Equal(t, entities.MachineName("Smelter"), ingot.Machine.Name)
	assert.Equal(t, uint32(2000), ingot.TimeMs)
	assert.True(t, ingot.Enabled)

	alternate := recipes[1]
	assert.Equal(t, "Alternate: Pure Iron Ingot", alternate.Name)
	assert.False(t, alternate.Enabled)
	assert.Equal(t, []entities.ItemStack{{Item: "Iron Ore", Quantity: 7}, {Item: "Water", Quantity: 4}}, alternate.Inputs)
	assert.Equal(t, []entities.ItemStack{{Item: "Iron Ingot", Quantity: 13}}, alternate.Outputs)

	assert.True(t, recipes[2].Enabled, "empty enabled column defaults to true")
	assert.Equal(t, uint32(250), recipes[3].TimeMs)
}

func TestLoader_ReadRecipesErrors(t *testing.T) {
	header := "name,machine,time_seconds,inputs,outputs,enabled\n"

	testCases := []struct {
		name     string
		content  string
		contains string
	}{
		{"empty file", "", "must have a header row"},
		{"header only", header, "at least one data row"},
		{"bad header", "name,machine,seconds,inputs,outputs,enabled\nA,M,1,,A:1,true\n", "header mismatch"},
		{"bad time", header + "A,M,soon,,A:1,true\n", "row 2: invalid time_seconds"},
		{"zero time", header + "A,M,0,,A:1,true\n", "row 2: time_seconds out of range"},
		{"bad stack", header + "A,M,1,Ore,A:1,true\n", "row 2: invalid inputs"},
		{"fractional quantity", header + "A,M,1,Ore:1.5,A:1,true\n", "positive whole quantity"},
		{"no outputs", header + "A,M,1,Ore:1,,true\n", "Outputs is required"},
		{"bad enabled", header + "A,M,1,,A:1,maybe\n", "invalid enabled"},
		{"wrong column count", header + "A,M,1\n", "failed to read recipes CSV"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().ReadRecipes(strings.NewReader(tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestLoader_InvalidRecipeIsWrapped(t *testing.T) {
	content := "name,machine,time_seconds,inputs,outputs,enabled\n,M,1,,A:1,true\n"

	_, err := NewLoader().ReadRecipes(strings.NewReader(content))

	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrInvalidRecipe))
}

func TestLoader_ReadMachines(t *testing.T) {
	content := "machine,power_mw\nSmelter,4\nManufacturer,55.5\nMiner,0\n"

	power, err := NewLoader().ReadMachines(strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, 4.0, power.Draw("Smelter"))
	assert.Equal(t, 55.5, power.Draw("Manufacturer"))
	assert.Equal(t, 0.0, power.Draw("Miner"))

	_, err = NewLoader().ReadMachines(strings.NewReader("machine,power_mw\nSmelter,-1\n"))
	assert.ErrorContains(t, err, "cannot be negative")
}

func TestLoader_ReadResources(t *testing.T) {
	content := "resource,availability\nIron Ore,92100\nWater,inf\nDepleted,0\n"

	availability, err := NewLoader().ReadResources(strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, 92100.0, availability["Iron Ore"])
	assert.True(t, math.IsInf(availability["Water"], 1))
	assert.Equal(t, 0.0, availability["Depleted"])

	_, err = NewLoader().ReadResources(strings.NewReader("resource,availability\nCoal,1\nCoal,2\n"))
	assert.ErrorContains(t, err, "duplicate resource Coal")
}

func TestLoader_ReadDemands(t *testing.T) {
	content := "product,rate_per_min\nIron Plate,30\nScrew,\n"

	demands, err := NewLoader().ReadDemands(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, demands, 2)

	assert.Equal(t, entities.Demand{Product: "Iron Plate", Rate: 30}, *demands[0])
	assert.Equal(t, entities.Demand{Product: "Screw", Rate: entities.DefaultDemandRate}, *demands[1])

	_, err = NewLoader().ReadDemands(strings.NewReader("product,rate_per_min\nScrew,-5\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrInvalidDemand))

	empty, err := NewLoader().ReadDemands(strings.NewReader("product,rate_per_min\n"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLoader_LoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipes.csv")
	require.NoError(t, os.WriteFile(path, []byte(recipesCSV), 0o644))

	recipes, err := NewLoader().LoadRecipes(path)
	require.NoError(t, err)
	assert.Len(t, recipes, 4)

	_, err = NewLoader().LoadMachines(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open machines file")
}

func TestStacksRoundTrip(t *testing.T) {
	stacks, err := ParseStacks(" Iron Ore:7 ; Water:4 ;")
	require.NoError(t, err)
	assert.Equal(t, "Iron Ore:7;Water:4", FormatStacks(stacks))

	none, err := ParseStacks("")
	require.NoError(t, err)
	assert.Nil(t, none)
}
