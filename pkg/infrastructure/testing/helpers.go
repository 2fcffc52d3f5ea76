package testing

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/infrastructure/repositories/memory"
)

// DiscardLogger returns a logger that drops every record
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OreCoalResources is the two-resource table used by the smelting scenario.
// Ore is the designated reference, so wp(Ore)=1 and wp(Coal)=2.
func OreCoalResources() *entities.RawResourceTable {
	return &entities.RawResourceTable{
		Availability: map[entities.ItemName]float64{
			"Ore":   100,
			"Coal":  50,
			"Water": math.Inf(1),
		},
		Policy:    entities.ReferenceDesignated,
		Reference: "Ore",
	}
}

// SmeltingCatalog is a small catalog with one ingot recipe, a disabled alternate,
// a plate recipe and a two-item loop that never reaches a raw resource.
func SmeltingCatalog() []entities.Recipe {
	return []entities.Recipe{
		{
			Name:    "Ingot",
			Inputs:  []entities.ItemStack{{Item: "Ore", Quantity: 2}},
			Outputs: []entities.ItemStack{{Item: "Ingot", Quantity: 1}},
			Machine: entities.Machine{Name: "Smelter"},
			TimeMs:  2000,
			Enabled: true,
		},
		{
			Name:    "Alternate: Coal Ingot",
			Inputs:  []entities.ItemStack{{Item: "Coal", Quantity: 3}},
			Outputs: []entities.ItemStack{{Item: "Ingot", Quantity: 1}},
			Machine: entities.Machine{Name: "Foundry"},
			TimeMs:  1000,
			Enabled: false,
		},
		{
			Name:    "Plate",
			Inputs:  []entities.ItemStack{{Item: "Ingot", Quantity: 3}},
			Outputs: []entities.ItemStack{{Item: "Plate", Quantity: 2}},
			Machine: entities.Machine{Name: "Constructor"},
			TimeMs:  6000,
			Enabled: true,
		},
		{
			Name:    "A from B",
			Inputs:  []entities.ItemStack{{Item: "B", Quantity: 1}},
			Outputs: []entities.ItemStack{{Item: "A", Quantity: 1}},
			Machine: entities.Machine{Name: "Constructor"},
			TimeMs:  1000,
			Enabled: true,
		},
		{
			Name:    "B from A",
			Inputs:  []entities.ItemStack{{Item: "A", Quantity: 1}},
			Outputs: []entities.ItemStack{{Item: "B", Quantity: 1}},
			Machine: entities.Machine{Name: "Constructor"},
			TimeMs:  1000,
			Enabled: true,
		},
	}
}

// SmeltingMachinePower lists the power draw (MW) of the smelting scenario machines
func SmeltingMachinePower() entities.MachinePowerMap {
	return entities.MachinePowerMap{
		"Smelter":     4,
		"Foundry":     16,
		"Constructor": 4,
	}
}

// BuildSmeltingTestData loads the smelting scenario into in-memory repositories
func BuildSmeltingTestData() (*memory.RecipeRepository, *memory.MachineRepository, *memory.DemandRepository) {
	catalog := SmeltingCatalog()
	recipeRepo := memory.NewRecipeRepository(len(catalog))
	machineRepo := memory.NewMachineRepository()
	demandRepo := memory.NewDemandRepository()

	recipes := make([]*entities.Recipe, len(catalog))
	for i := range catalog {
		recipes[i] = &catalog[i]
	}
	if err := recipeRepo.LoadRecipes(recipes); err != nil {
		panic(err)
	}
	if err := machineRepo.LoadMachines(SmeltingMachinePower()); err != nil {
		panic(err)
	}
	if err := demandRepo.LoadDemands([]*entities.Demand{
		{Product: "Ingot", Rate: 60},
		{Product: "Plate", Rate: 20},
	}); err != nil {
		panic(err)
	}

	return recipeRepo, machineRepo, demandRepo
}

// Float64 returns a pointer to v
func Float64(v float64) *float64 {
	return &v
}

// LayeredCatalog builds depth tiers of width items. Tier 1 smelts Ore and every
// higher item combines two items from the tier below. Every fourth item also gets
// a disabled alternate so selectors have a choice to make.
func LayeredCatalog(depth, width int) []entities.Recipe {
	name := func(tier, i int) entities.ItemName {
		if tier == 0 {
			return "Ore"
		}
		return entities.ItemName(fmt.Sprintf("T%d-%03d", tier, i%width))
	}

	var recipes []entities.Recipe
	for tier := 1; tier <= depth; tier++ {
		for i := 0; i < width; i++ {
			inputs := []entities.ItemStack{{Item: name(tier-1, i), Quantity: 2}}
			if tier > 1 {
				inputs = append(inputs, entities.ItemStack{Item: name(tier-1, i+1), Quantity: 1})
			}
			recipe := entities.Recipe{
				Name:    string(name(tier, i)),
				Inputs:  inputs,
				Outputs: []entities.ItemStack{{Item: name(tier, i), Quantity: 1}},
				Machine: entities.Machine{Name: "Assembler"},
				TimeMs:  4000,
				Enabled: true,
			}
			recipes = append(recipes, recipe)

			if i%4 == 0 {
				alternate := recipe
				alternate.Name = "Alternate: " + recipe.Name
				alternate.Inputs = []entities.ItemStack{{Item: "Coal", Quantity: uint32(tier)}}
				alternate.Machine = entities.Machine{Name: "Foundry"}
				alternate.Enabled = false
				recipes = append(recipes, alternate)
			}
		}
	}
	return recipes
}

// LayeredMachinePower lists the machines used by LayeredCatalog
func LayeredMachinePower() entities.MachinePowerMap {
	return entities.MachinePowerMap{
		"Assembler": 15,
		"Foundry":   16,
	}
}
