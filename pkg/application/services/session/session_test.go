package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factoryplan/pkg/application/services/planner"
	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/infrastructure/events"
	"github.com/vsinha/factoryplan/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/factoryplan/pkg/infrastructure/testing"
)

func newTestSession(t *testing.T, initial entities.DemandList) (*Session, *memory.RecipeRepository, *events.InMemoryEventStore) {
	t.Helper()
	recipeRepo, machineRepo, demandRepo := testhelpers.BuildSmeltingTestData()
	service, err := planner.NewService(
		recipeRepo,
		machineRepo,
		demandRepo,
		testhelpers.OreCoalResources(),
		planner.Config{},
		planner.WithLogger(testhelpers.DiscardLogger()),
	)
	require.NoError(t, err)

	store := events.NewInMemoryEventStore()
	s, err := New(service, recipeRepo, store, initial, planner.PlanOptions{}, testhelpers.DiscardLogger())
	require.NoError(t, err)
	return s, recipeRepo, store
}

func TestSession_SetAndRemoveDemand(t *testing.T) {
	s, _, store := newTestSession(t, entities.DemandList{{Product: "Ingot", Rate: 60}})

	require.NoError(t, s.SetDemand("Plate", 20))
	require.NoError(t, s.SetDemand("Ingot", 30))
	assert.Equal(t, entities.DemandList{
		{Product: "Ingot", Rate: 30},
		{Product: "Plate", Rate: 20},
	}, s.Demands())

	require.NoError(t, s.RemoveDemand("Plate"))
	assert.Equal(t, entities.DemandList{{Product: "Ingot", Rate: 30}}, s.Demands())

	err := s.RemoveDemand("Plate")
	assert.ErrorIs(t, err, entities.ErrDemandNotFound)
	assert.ErrorIs(t, s.SetDemand("Plate", -1), entities.ErrInvalidDemand)

	log, err := store.ReadEvents(events.DemandStream, 1)
	require.NoError(t, err)
	require.Len(t, log, 3)
	assert.Equal(t, events.DemandAddedEvent, log[0].Type())
	assert.Equal(t, events.DemandUpdatedEvent, log[1].Type())
	assert.Equal(t, events.DemandUpdated{
		OldDemand: entities.Demand{Product: "Ingot", Rate: 60},
		NewDemand: entities.Demand{Product: "Ingot", Rate: 30},
	}, log[1].Data())
	assert.Equal(t, events.DemandRemovedEvent, log[2].Type())
}

func TestSession_PlanReusedUntilChange(t *testing.T) {
	s, _, store := newTestSession(t, entities.DemandList{{Product: "Ingot", Rate: 60}})
	ctx := context.Background()

	assert.True(t, s.Stale())
	first, err := s.Plan(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 120.0, first.RawResources["Ore"], 1e-9)
	assert.False(t, s.Stale())

	again, err := s.Plan(ctx)
	require.NoError(t, err)
	assert.Same(t, first, again)

	require.NoError(t, s.SetDemand("Plate", 20))
	assert.True(t, s.Stale())

	rebuilt, err := s.Plan(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, rebuilt)
	assert.InDelta(t, 180.0, rebuilt.RawResources["Ore"], 1e-9)

	plans, err := store.ReadEvents(events.PlanStream, 1)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, events.PlanBuilt{Demands: 2, RawResources: 1, Machines: 2}, plans[1].Data())
}

func TestSession_RecipeToggleChangesPlan(t *testing.T) {
	s, recipeRepo, _ := newTestSession(t, entities.DemandList{{Product: "Ingot", Rate: 60}})
	ctx := context.Background()

	_, err := s.Plan(ctx)
	require.NoError(t, err)

	require.NoError(t, s.SetRecipeEnabled("Alternate: Coal Ingot", true))
	require.NoError(t, s.SetRecipeEnabled("Ingot", false))
	assert.True(t, s.Stale())
	_, enabled := recipeRepo.EnabledSet()["Ingot"]
	assert.False(t, enabled)

	result, err := s.Plan(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 180.0, result.RawResources["Coal"], 1e-9)
	assert.InDelta(t, 1.0, result.Machines["Foundry"], 1e-9)

	err = s.SetRecipeEnabled("Missing", true)
	assert.ErrorIs(t, err, entities.ErrRecipeNotFound)

	all, err := s.Events(0)
	require.NoError(t, err)
	types := make([]string, len(all))
	for i, e := range all {
		types[i] = e.Type()
	}
	assert.Equal(t, []string{
		events.PlanBuiltEvent,
		events.RecipeEnabledEvent,
		events.RecipeDisabledEvent,
		events.PlanBuiltEvent,
	}, types)
}

func TestSession_EmptyDemandsPlanNothing(t *testing.T) {
	s, _, _ := newTestSession(t, nil)

	result, err := s.Plan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Forest)
	assert.Empty(t, result.RawResources)
}

func TestSession_Search(t *testing.T) {
	s, _, _ := newTestSession(t, entities.DemandList{{Product: "Ingot", Rate: 60}})

	assert.Empty(t, s.Search("ingot"))
	assert.Equal(t, []entities.ItemName{"Plate"}, s.Search("pla"))
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(nil, nil, nil, nil, planner.PlanOptions{}, nil)
	assert.Error(t, err)
}

// hookedRecipes runs a callback the first time the planner reads the catalog
type hookedRecipes struct {
	*memory.RecipeRepository
	once sync.Once
	hook func()
}

func (h *hookedRecipes) GetAllRecipes() ([]entities.Recipe, error) {
	h.once.Do(h.hook)
	return h.RecipeRepository.GetAllRecipes()
}

func TestSession_ChangeDuringPlanKeepsSessionStale(t *testing.T) {
	recipeRepo, machineRepo, demandRepo := testhelpers.BuildSmeltingTestData()
	hooked := &hookedRecipes{RecipeRepository: recipeRepo}
	service, err := planner.NewService(
		hooked,
		machineRepo,
		demandRepo,
		testhelpers.OreCoalResources(),
		planner.Config{},
		planner.WithLogger(testhelpers.DiscardLogger()),
	)
	require.NoError(t, err)

	s, err := New(service, recipeRepo, events.NewInMemoryEventStore(),
		entities.DemandList{{Product: "Ingot", Rate: 60}}, planner.PlanOptions{}, testhelpers.DiscardLogger())
	require.NoError(t, err)
	hooked.hook = func() {
		require.NoError(t, s.SetDemand("Plate", 20))
	}
	ctx := context.Background()

	first, err := s.Plan(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 120.0, first.RawResources["Ore"], 1e-9)
	assert.True(t, s.Stale())

	second, err := s.Plan(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.InDelta(t, 180.0, second.RawResources["Ore"], 1e-9)
	assert.False(t, s.Stale())
}
