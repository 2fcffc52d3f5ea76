package breakdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	testhelpers "github.com/vsinha/factoryplan/pkg/infrastructure/testing"
)

func TestAggregates_SmeltingForest(t *testing.T) {
	builder := newSmeltingBuilder(nil, nil)
	forest := builder.BuildForest(entities.DemandList{
		{Product: "Ingot", Rate: 60},
		{Product: "Plate", Rate: 20},
	})

	raw := RawResourceTotals(forest)
	assert.Len(t, raw, 1)
	assert.InDelta(t, 180.0, raw["Ore"], 1e-9)

	machines := MachineTotals(forest)
	assert.InDelta(t, 3.0, machines["Smelter"], 1e-9)
	assert.InDelta(t, 1.0, machines["Constructor"], 1e-9)
}

func TestAggregates_CycleAndUnresolvedLeavesCountAsRaw(t *testing.T) {
	builder := newSmeltingBuilder(entities.NewEnabledSet("A from B", "B from A"), nil)
	forest := builder.BuildForest(entities.DemandList{
		{Product: "A", Rate: 10},
		{Product: "Ingot", Rate: 5},
	})

	raw := RawResourceTotals(forest)
	assert.InDelta(t, 10.0, raw["A"], 1e-9)
	assert.InDelta(t, 5.0, raw["Ingot"], 1e-9)

	machines := MachineTotals(forest)
	assert.InDelta(t, 2*10.0/60.0, machines["Constructor"], 1e-9)

	cycles, unresolved := CountLeaves(forest, testhelpers.OreCoalResources())
	assert.Equal(t, 1, cycles)
	assert.Equal(t, 1, unresolved)
}

func TestAggregates_ConservesLeafRates(t *testing.T) {
	forest := newSmeltingBuilder(nil, nil).BuildForest(entities.DemandList{
		{Product: "Plate", Rate: 45},
		{Product: "A", Rate: 3},
	})

	var leafSum float64
	Walk(forest, func(_ int, node *entities.BreakdownNode) {
		if node.Machine == nil {
			leafSum += node.Rate
		}
	})

	var totalSum float64
	for _, rate := range RawResourceTotals(forest) {
		totalSum += rate
	}
	assert.InDelta(t, leafSum, totalSum, 1e-9)
}

func TestSummarize(t *testing.T) {
	forest := newSmeltingBuilder(nil, nil).BuildForest(entities.DemandList{
		{Product: "Plate", Rate: 20},
		{Product: "Widget", Rate: 1},
	})

	result := Summarize(forest, testhelpers.OreCoalResources())

	assert.Len(t, result.Forest, 2)
	assert.Equal(t, 0, result.CycleNodes)
	assert.Equal(t, 1, result.UnresolvedNodes)
	assert.InDelta(t, 60.0, result.RawResources["Ore"], 1e-9)
	assert.InDelta(t, 1.0, result.Machines["Smelter"], 1e-9)
}

func TestSortedTotals(t *testing.T) {
	rows := SortedTotals(map[entities.MachineName]float64{
		"Smelter":     2,
		"Assembler":   0.5,
		"Constructor": 1,
	})

	require.Len(t, rows, 3)
	assert.Equal(t, Total{Name: "Assembler", Amount: 0.5}, rows[0])
	assert.Equal(t, "Constructor", rows[1].Name)
	assert.Equal(t, "Smelter", rows[2].Name)
}

func TestFlatten_PreOrderWithDepth(t *testing.T) {
	forest := newSmeltingBuilder(nil, nil).BuildForest(entities.DemandList{
		{Product: "Plate", Rate: 20},
		{Product: "Ore", Rate: 1},
	})

	rows := Flatten(forest)

	require.Len(t, rows, 4)
	expected := []struct {
		depth   int
		product entities.ItemName
	}{
		{0, "Plate"},
		{1, "Ingot"},
		{2, "Ore"},
		{0, "Ore"},
	}
	for i, want := range expected {
		assert.Equal(t, want.depth, rows[i].Depth, "row %d", i)
		assert.Equal(t, want.product, rows[i].Node.Product, "row %d", i)
	}
}
