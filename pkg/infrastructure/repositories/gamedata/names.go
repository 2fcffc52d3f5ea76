package gamedata

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

var classPrefixes = []string{"Desc_", "Build_", "Recipe_", "TempRecipe_"}

// IngredientEntry is one ItemClass/Amount pair from a class tuple
type IngredientEntry struct {
	ItemClass string
	Amount    decimal.Decimal
}

// CleanName turns a class name such as Desc_IronIngot_C into a readable name
func CleanName(raw string) string {
	name := raw
	for _, prefix := range classPrefixes {
		name = strings.TrimPrefix(name, prefix)
	}
	name = strings.TrimSuffix(name, "_C")
	return strings.ReplaceAll(name, "_", " ")
}

// IsAlternate reports whether a recipe display name marks an alternate recipe
func IsAlternate(name string) bool {
	return strings.HasPrefix(name, "Alternate")
}

// ShortClassName strips an asset path down to its class name,
// e.g. /Game/.../Desc_IronIngot.Desc_IronIngot_C' becomes Desc_IronIngot_C
func ShortClassName(path string) string {
	name := strings.Trim(strings.TrimSpace(path), `"'`)
	if pos := strings.LastIndex(name, "/"); pos >= 0 {
		name = name[pos+1:]
	}
	if pos := strings.LastIndex(name, "."); pos >= 0 {
		name = name[pos+1:]
	}
	return strings.TrimRight(name, `"'`)
}

// ParseIngredients extracts ItemClass/Amount pairs from a tuple string like
// ((ItemClass="...Desc_Ore.Desc_Ore_C'",Amount=3),(ItemClass="...",Amount=2))
func ParseIngredients(tuples string) []IngredientEntry {
	matches := ingredientPattern.FindAllStringSubmatch(tuples, -1)
	entries := make([]IngredientEntry, 0, len(matches))
	for _, m := range matches {
		amount, err := decimal.NewFromString(m[2])
		if err != nil {
			amount = decimal.NewFromInt(1)
		}
		entries = append(entries, IngredientEntry{
			ItemClass: ShortClassName(m[1]),
			Amount:    amount,
		})
	}
	return entries
}

// ParseProducedIn extracts machine class names from a tuple string like
// ("/Game/.../Build_SmelterMk1.Build_SmelterMk1_C","/Script/FactoryGame.FGBuildGun")
func ParseProducedIn(tuple string) []string {
	trimmed := strings.TrimSpace(tuple)
	if !strings.HasPrefix(trimmed, "(") || !strings.HasSuffix(trimmed, ")") {
		return nil
	}

	var classes []string
	for _, part := range strings.Split(trimmed[1:len(trimmed)-1], ",") {
		if class := ShortClassName(part); class != "" {
			classes = append(classes, class)
		}
	}
	return classes
}

// BuildDisplayNameMap maps every class name that has a display name to it
func BuildDisplayNameMap(root gjson.Result) map[string]string {
	names := make(map[string]string)
	root.ForEach(func(_, group gjson.Result) bool {
		group.Get("Classes").ForEach(func(_, class gjson.Result) bool {
			display := class.Get("mDisplayName").String()
			if display != "" {
				names[class.Get("ClassName").String()] = display
			}
			return true
		})
		return true
	})
	return names
}

// lookupName returns the display name of a class, or its cleaned class name
func lookupName(displayNames map[string]string, class string) string {
	if name, ok := displayNames[class]; ok {
		return name
	}
	return CleanName(class)
}
