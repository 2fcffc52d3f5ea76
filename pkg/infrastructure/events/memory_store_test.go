package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

type recordingHandler struct {
	types []string
	seen  []Event
	err   error
}

func (h *recordingHandler) Handle(event Event) error {
	h.seen = append(h.seen, event)
	return h.err
}

func (h *recordingHandler) CanHandle(eventType string) bool {
	for _, t := range h.types {
		if t == eventType {
			return true
		}
	}
	return false
}

func TestInMemoryEventStore_VersionsPerStream(t *testing.T) {
	store := NewInMemoryEventStore()

	require.NoError(t, store.AppendEvent(DemandStream, NewDemandAddedEvent(entities.Demand{Product: "Plate", Rate: 30})))
	require.NoError(t, store.AppendEvent(RecipeStream, NewRecipeToggledEvent("Alternate: Cast Screw", true)))
	require.NoError(t, store.AppendEvent(DemandStream, NewDemandRemovedEvent(entities.Demand{Product: "Plate", Rate: 30})))

	demands, err := store.ReadEvents(DemandStream, 0)
	require.NoError(t, err)
	require.Len(t, demands, 2)
	assert.Equal(t, 1, demands[0].Version())
	assert.Equal(t, 2, demands[1].Version())
	assert.Equal(t, DemandRemovedEvent, demands[1].Type())

	later, err := store.ReadEvents(DemandStream, 2)
	require.NoError(t, err)
	assert.Len(t, later, 1)

	none, err := store.ReadEvents("missing", 1)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := store.ReadAllEvents(1)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, RecipeEnabledEvent, all[0].Type())
	assert.Equal(t, RecipeToggled{Recipe: "Alternate: Cast Screw", Enabled: true}, all[0].Data())
	assert.Equal(t, 3, store.Len())
}

func TestInMemoryEventStore_NotifiesSubscribers(t *testing.T) {
	store := NewInMemoryEventStore()
	handler := &recordingHandler{types: []string{DemandAddedEvent}}
	require.NoError(t, store.Subscribe([]string{DemandAddedEvent}, handler))

	require.NoError(t, store.AppendEvent(DemandStream, NewDemandAddedEvent(entities.Demand{Product: "Plate", Rate: 30})))
	require.NoError(t, store.AppendEvent(RecipeStream, NewRecipeToggledEvent("Plate", false)))

	require.Len(t, handler.seen, 1)
	assert.Equal(t, DemandStream, handler.seen[0].StreamID())

	require.NoError(t, store.Unsubscribe(handler))
	require.NoError(t, store.AppendEvent(DemandStream, NewDemandAddedEvent(entities.Demand{Product: "Rod", Rate: 15})))
	assert.Len(t, handler.seen, 1)
}

func TestInMemoryEventStore_HandlerErrors(t *testing.T) {
	store := NewInMemoryEventStore()
	boom := errors.New("boom")
	handler := &recordingHandler{types: []string{PlanBuiltEvent}, err: boom}
	require.NoError(t, store.Subscribe([]string{PlanBuiltEvent}, handler))

	err := store.AppendEvent(PlanStream, NewPlanBuiltEvent(1, &entities.PlanResult{}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, store.Len())

	assert.Error(t, store.AppendEvent("", NewPlanBuiltEvent(0, &entities.PlanResult{})))
	assert.Error(t, store.Subscribe([]string{PlanBuiltEvent}, nil))
}
