package gamedata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

const docsJSON = `[
  {
    "NativeClass": "/Script/CoreUObject.Class'/Script/FactoryGame.FGItemDescriptor'",
    "Classes": [
      {"ClassName": "Desc_OreIron_C", "mDisplayName": "Iron Ore"},
      {"ClassName": "Desc_IronIngot_C", "mDisplayName": "Iron Ingot"},
      {"ClassName": "Desc_IronPlate_C", "mDisplayName": "Iron Plate"},
      {"ClassName": "Desc_Water_C", "mDisplayName": "Water"}
    ]
  },
  {
    "NativeClass": "/Script/CoreUObject.Class'/Script/FactoryGame.FGBuildableManufacturer'",
    "Classes": [
      {"ClassName": "Build_SmelterMk1_C", "mDisplayName": "Smelter", "mPowerConsumption": "4.000000"},
      {"ClassName": "Build_ConstructorMk1_C", "mDisplayName": "Constructor", "mPowerConsumption": "4.000000"},
      {"ClassName": "Build_OilRefinery_C", "mDisplayName": "Refinery", "mPowerConsumption": "30.000000"}
    ]
  },
  {
    "NativeClass": "/Script/CoreUObject.Class'/Script/FactoryGame.FGRecipe'",
    "Classes": [
      {
        "ClassName": "Recipe_IngotIron_C",
        "mDisplayName": "Iron Ingot",
        "mIngredients": "((ItemClass=\"/Script/Engine.BlueprintGeneratedClass'/Game/FactoryGame/Resource/RawResources/OreIron/Desc_OreIron.Desc_OreIron_C'\",Amount=1))",
        "mProduct": "((ItemClass=\"/Script/Engine.BlueprintGeneratedClass'/Game/FactoryGame/Resource/Parts/IronIngot/Desc_IronIngot.Desc_IronIngot_C'\",Amount=1))",
        "mManufactoringDuration": "2.000000",
        "mProducedIn": "(\"/Game/FactoryGame/Buildable/Factory/SmelterMk1/Build_SmelterMk1.Build_SmelterMk1_C\")"
      },
      {
        "ClassName": "Recipe_Alternate_PureIronIngot_C",
        "mDisplayName": "Alternate: Pure Iron Ingot",
        "mIngredients": "((ItemClass=\"/Script/Engine.BlueprintGeneratedClass'/Game/FactoryGame/Resource/RawResources/OreIron/Desc_OreIron.Desc_OreIron_C'\",Amount=7),(ItemClass=\"/Script/Engine.BlueprintGeneratedClass'/Game/FactoryGame/Resource/RawResources/Water/Desc_Water.Desc_Water_C'\",Amount=4000))",
        "mProduct": "((ItemClass=\"/Script/Engine.BlueprintGeneratedClass'/Game/FactoryGame/Resource/Parts/IronIngot/Desc_IronIngot.Desc_IronIngot_C'\",Amount=13))",
        "mManufactoringDuration": "12.000000",
        "mProducedIn": "(\"/Game/FactoryGame/Buildable/Factory/OilRefinery/Build_OilRefinery.Build_OilRefinery_C\")"
      },
      {
        "ClassName": "Recipe_IronPlate_C",
        "mDisplayName": "Iron Plate",
        "mIngredients": "((ItemClass=\"/Script/Engine.BlueprintGeneratedClass'/Game/FactoryGame/Resource/Parts/IronIngot/Desc_IronIngot.Desc_IronIngot_C'\",Amount=3))",
        "mProduct": "((ItemClass=\"/Script/Engine.BlueprintGeneratedClass'/Game/FactoryGame/Resource/Parts/IronPlate/Desc_IronPlate.Desc_IronPlate_C'\",Amount=2))",
        "mProducedIn": "(\"/Game/FactoryGame/Buildable/Factory/ConstructorMk1/Build_ConstructorMk1.Build_ConstructorMk1_C\",\"/Game/FactoryGame/Buildable/-Shared/WorkBench/BP_WorkBenchComponent.BP_WorkBenchComponent_C\")"
      },
      {
        "ClassName": "Recipe_HandPlate_C",
        "mDisplayName": "Hand Plate",
        "mIngredients": "((ItemClass=\"/Script/Engine.BlueprintGeneratedClass'/Game/FactoryGame/Resource/Parts/IronIngot/Desc_IronIngot.Desc_IronIngot_C'\",Amount=1))",
        "mProduct": "((ItemClass=\"/Script/Engine.BlueprintGeneratedClass'/Game/FactoryGame/Resource/Parts/IronPlate/Desc_IronPlate.Desc_IronPlate_C'\",Amount=1))",
        "mManufactoringDuration": "1.000000",
        "mProducedIn": "(\"/Game/FactoryGame/Buildable/-Shared/WorkBench/BP_WorkBenchComponent.BP_WorkBenchComponent_C\",\"/Script/FactoryGame.FGBuildGun\")"
      },
      {
        "ClassName": "Recipe_Broken_C",
        "mDisplayName": "Broken",
        "mIngredients": "",
        "mProduct": "",
        "mManufactoringDuration": "1.000000",
        "mProducedIn": "(\"/Game/FactoryGame/Buildable/Factory/SmelterMk1/Build_SmelterMk1.Build_SmelterMk1_C\")"
      }
    ]
  }
]`

const recipeListJSON = `[
  {
    "className": "Recipe_IngotCopper_C",
    "name": "Copper Ingot",
    "duration": 2,
    "ingredients": [{"item": "Desc_OreCopper_C", "amount": 1}],
    "products": [{"item": "Desc_CopperIngot_C", "amount": 1}],
    "producedIn": ["Build_SmelterMk1_C"],
    "alternate": false
  },
  {
    "className": "Recipe_Alternate_CopperAlloyIngot_C",
    "name": "Alternate: Copper Alloy Ingot",
    "duration": 12,
    "ingredients": [{"item": "Desc_OreCopper_C", "amount": 10}, {"item": "Desc_OreIron_C", "amount": 5}],
    "products": [{"item": "Desc_CopperIngot_C", "amount": 20}],
    "producedIn": ["Build_FoundryMk1_C"],
    "alternate": true
  },
  {
    "className": "Recipe_Wire_C",
    "name": "Wire",
    "duration": 4,
    "ingredients": [{"item": "Desc_CopperIngot_C", "amount": 1}],
    "products": [{"item": "Desc_Wire_C", "amount": 0}],
    "producedIn": ["Build_ConstructorMk1_C"]
  }
]`

func TestLoader_DocsFormat(t *testing.T) {
	catalog, err := NewLoader().Load([]byte(docsJSON))
	require.NoError(t, err)

	assert.Equal(t, FormatDocs, catalog.Format)
	require.Len(t, catalog.Recipes, 3)

	ingot := catalog.Recipes[0]
	assert.Equal(t, "Iron Ingot", ingot.Name)
	assert.Equal(t, entities.MachineName("Smelter"), ingot.Machine.Name)
	assert.Equal(t, uint32(2000), ingot.TimeMs)
	assert.Equal(t, []entities.ItemStack{{Item: "Iron Ore", Quantity: 1}}, ingot.Inputs)
	assert.Equal(t, []entities.ItemStack{{Item: "Iron Ingot", Quantity: 1}}, ingot.Outputs)
	assert.True(t, ingot.Enabled)

	pure := catalog.Recipes[1]
	assert.Equal(t, "Alternate: Pure Iron Ingot", pure.Name)
	assert.False(t, pure.Enabled)
	assert.Equal(t, entities.MachineName("Refinery"), pure.Machine.Name)
	require.Len(t, pure.Inputs, 2)
	assert.Equal(t, entities.ItemStack{Item: "Water", Quantity: 4}, pure.Inputs[1])

	plate := catalog.Recipes[2]
	assert.Equal(t, entities.MachineName("Constructor"), plate.Machine.Name)
	assert.Equal(t, uint32(1000), plate.TimeMs, "missing duration defaults to one second")

	require.Len(t, catalog.Skipped, 1)
	assert.Equal(t, "Broken", catalog.Skipped[0].Name)

	assert.Equal(t, 4.0, catalog.MachinePower.Draw("Smelter"))
	assert.Equal(t, 30.0, catalog.MachinePower.Draw("Refinery"))
}

func TestLoader_RecipeListFormat(t *testing.T) {
	catalog, err := NewLoader().Load([]byte(recipeListJSON))
	require.NoError(t, err)

	assert.Equal(t, FormatRecipeList, catalog.Format)
	require.Len(t, catalog.Recipes, 2)

	copper := catalog.Recipes[0]
	assert.Equal(t, "Copper Ingot", copper.Name)
	assert.Equal(t, entities.MachineName("SmelterMk1"), copper.Machine.Name)
	assert.Equal(t, []entities.ItemStack{{Item: "OreCopper", Quantity: 1}}, copper.Inputs)
	assert.True(t, copper.Enabled)

	alloy := catalog.Recipes[1]
	assert.False(t, alloy.Enabled)
	assert.Equal(t, uint32(12000), alloy.TimeMs)

	require.Len(t, catalog.Skipped, 1)
	assert.Equal(t, "Wire", catalog.Skipped[0].Name)
	assert.Empty(t, catalog.MachinePower)
}

func TestLoader_SkipsOutOfRangeNumbers(t *testing.T) {
	testCases := []struct {
		name  string
		entry string
	}{
		{"negative ingredient", `{"className": "Recipe_Wire_C", "name": "Wire", "duration": 4, "ingredients": [{"item": "Desc_OreCopper_C", "amount": -1}], "products": [{"item": "Desc_Wire_C", "amount": 2}]}`},
		{"oversized product", `{"className": "Recipe_Wire_C", "name": "Wire", "duration": 4, "ingredients": [{"item": "Desc_OreCopper_C", "amount": 1}], "products": [{"item": "Desc_Wire_C", "amount": 4294967297}]}`},
		{"oversized duration", `{"className": "Recipe_Wire_C", "name": "Wire", "duration": 4294968, "ingredients": [{"item": "Desc_OreCopper_C", "amount": 1}], "products": [{"item": "Desc_Wire_C", "amount": 2}]}`},
		{"negative duration", `{"className": "Recipe_Wire_C", "name": "Wire", "duration": -4, "ingredients": [{"item": "Desc_OreCopper_C", "amount": 1}], "products": [{"item": "Desc_Wire_C", "amount": 2}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := `[` + tc.entry + `, {"className": "Recipe_IngotCopper_C", "name": "Copper Ingot", "duration": 2, "ingredients": [{"item": "Desc_OreCopper_C", "amount": 1}], "products": [{"item": "Desc_CopperIngot_C", "amount": 1}]}]`
			catalog, err := NewLoader().Load([]byte(data))
			require.NoError(t, err)

			require.Len(t, catalog.Recipes, 1)
			assert.Equal(t, "Copper Ingot", catalog.Recipes[0].Name)
			require.Len(t, catalog.Skipped, 1)
			assert.Equal(t, "Wire", catalog.Skipped[0].Name)
			assert.Contains(t, catalog.Skipped[0].Reason, "out of range")
		})
	}
}

func TestLoader_DocsSkipsOversizedAmounts(t *testing.T) {
	data := `[{
    "NativeClass": "/Script/CoreUObject.Class'/Script/FactoryGame.FGRecipe'",
    "Classes": [
      {
        "ClassName": "Recipe_Huge_C",
        "mDisplayName": "Huge",
        "mIngredients": "((ItemClass=\"/Game/Desc_OreIron.Desc_OreIron_C'\",Amount=1))",
        "mProduct": "((ItemClass=\"/Game/Desc_IronIngot.Desc_IronIngot_C'\",Amount=99999999999999999))",
        "mManufactoringDuration": "2.000000",
        "mProducedIn": "(\"/Game/Build_SmelterMk1.Build_SmelterMk1_C\")"
      },
      {
        "ClassName": "Recipe_Slow_C",
        "mDisplayName": "Slow",
        "mIngredients": "((ItemClass=\"/Game/Desc_OreIron.Desc_OreIron_C'\",Amount=1))",
        "mProduct": "((ItemClass=\"/Game/Desc_IronIngot.Desc_IronIngot_C'\",Amount=1))",
        "mManufactoringDuration": "4294968.000000",
        "mProducedIn": "(\"/Game/Build_SmelterMk1.Build_SmelterMk1_C\")"
      },
      {
        "ClassName": "Recipe_IngotIron_C",
        "mDisplayName": "Iron Ingot",
        "mIngredients": "((ItemClass=\"/Game/Desc_OreIron.Desc_OreIron_C'\",Amount=1))",
        "mProduct": "((ItemClass=\"/Game/Desc_IronIngot.Desc_IronIngot_C'\",Amount=1))",
        "mManufactoringDuration": "2.000000",
        "mProducedIn": "(\"/Game/Build_SmelterMk1.Build_SmelterMk1_C\")"
      }
    ]
  }]`

	catalog, err := NewLoader().Load([]byte(data))
	require.NoError(t, err)

	require.Len(t, catalog.Recipes, 1)
	assert.Equal(t, "Iron Ingot", catalog.Recipes[0].Name)
	require.Len(t, catalog.Skipped, 2)
	assert.Equal(t, "Huge", catalog.Skipped[0].Name)
	assert.Equal(t, "Slow", catalog.Skipped[1].Name)
	for _, skipped := range catalog.Skipped {
		assert.Contains(t, skipped.Reason, "out of range")
	}
}

func TestLoader_RejectsUnknownLayouts(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"not json", "{nope"},
		{"object root", `{"Classes": []}`},
		{"unknown array", `[{"foo": 1}]`},
		{"empty array", `[]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().Load([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.json")
	require.NoError(t, os.WriteFile(path, []byte(recipeListJSON), 0o644))

	catalog, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, catalog.Recipes, 2)

	_, err = NewLoader().LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to open game data file")
}

func TestCleanName(t *testing.T) {
	testCases := map[string]string{
		"Desc_IronIngot_C":        "IronIngot",
		"Build_SmelterMk1_C":      "SmelterMk1",
		"Recipe_Alternate_Wire_C": "Alternate Wire",
		"TempRecipe_Foo_C":        "Foo",
		"Plain Name":              "Plain Name",
	}
	for input, expected := range testCases {
		assert.Equal(t, expected, CleanName(input), "input %s", input)
	}
}

func TestParseIngredients(t *testing.T) {
	entries := ParseIngredients(`((ItemClass="/Game/A/Desc_A.Desc_A_C'",Amount=3),(ItemClass=\"/Game/B/Desc_B.Desc_B_C\",Amount=2.5))`)

	require.Len(t, entries, 2)
	assert.Equal(t, "Desc_A_C", entries[0].ItemClass)
	assert.Equal(t, "3", entries[0].Amount.String())
	assert.Equal(t, "Desc_B_C", entries[1].ItemClass)
	assert.Equal(t, "2.5", entries[1].Amount.String())

	assert.Empty(t, ParseIngredients(""))
}

func TestParseProducedIn(t *testing.T) {
	classes := ParseProducedIn(`("/Game/Build_SmelterMk1.Build_SmelterMk1_C", "/Script/FactoryGame.FGBuildGun")`)
	assert.Equal(t, []string{"Build_SmelterMk1_C", "FGBuildGun"}, classes)

	assert.Nil(t, ParseProducedIn(""))
	assert.Nil(t, ParseProducedIn("Build_SmelterMk1_C"))
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatDocs, DetectFormat(gjson.Parse(docsJSON)))
	assert.Equal(t, FormatRecipeList, DetectFormat(gjson.Parse(recipeListJSON)))
	assert.Equal(t, FormatUnknown, DetectFormat(gjson.Parse(`"text"`)))
	assert.Equal(t, "docs", FormatDocs.String())
}
