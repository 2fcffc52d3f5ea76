package events

import (
	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

// Event types recorded by a planning session
const (
	DemandAddedEvent   = "demand.added"
	DemandUpdatedEvent = "demand.updated"
	DemandRemovedEvent = "demand.removed"

	RecipeEnabledEvent  = "recipe.enabled"
	RecipeDisabledEvent = "recipe.disabled"

	PlanBuiltEvent = "plan.built"
)

// Streams group session events by what they change
const (
	DemandStream = "demands"
	RecipeStream = "recipes"
	PlanStream   = "plans"
)

// ChangeEvents are the event types that invalidate a built plan
var ChangeEvents = []string{
	DemandAddedEvent,
	DemandUpdatedEvent,
	DemandRemovedEvent,
	RecipeEnabledEvent,
	RecipeDisabledEvent,
}

type DemandAdded struct {
	Demand entities.Demand `json:"demand"`
}

type DemandUpdated struct {
	OldDemand entities.Demand `json:"old_demand"`
	NewDemand entities.Demand `json:"new_demand"`
}

type DemandRemoved struct {
	Demand entities.Demand `json:"demand"`
}

type RecipeToggled struct {
	Recipe  string `json:"recipe"`
	Enabled bool   `json:"enabled"`
}

type PlanBuilt struct {
	Demands         int `json:"demands"`
	RawResources    int `json:"raw_resources"`
	Machines        int `json:"machines"`
	CycleNodes      int `json:"cycle_nodes"`
	UnresolvedNodes int `json:"unresolved_nodes"`
}

func NewDemandAddedEvent(demand entities.Demand) Event {
	return NewEvent(DemandAddedEvent, DemandStream, DemandAdded{Demand: demand})
}

func NewDemandUpdatedEvent(oldDemand, newDemand entities.Demand) Event {
	return NewEvent(DemandUpdatedEvent, DemandStream, DemandUpdated{OldDemand: oldDemand, NewDemand: newDemand})
}

func NewDemandRemovedEvent(demand entities.Demand) Event {
	return NewEvent(DemandRemovedEvent, DemandStream, DemandRemoved{Demand: demand})
}

func NewRecipeToggledEvent(recipe string, enabled bool) Event {
	eventType := RecipeDisabledEvent
	if enabled {
		eventType = RecipeEnabledEvent
	}
	return NewEvent(eventType, RecipeStream, RecipeToggled{Recipe: recipe, Enabled: enabled})
}

func NewPlanBuiltEvent(demands int, result *entities.PlanResult) Event {
	return NewEvent(PlanBuiltEvent, PlanStream, PlanBuilt{
		Demands:         demands,
		RawResources:    len(result.RawResources),
		Machines:        len(result.Machines),
		CycleNodes:      result.CycleNodes,
		UnresolvedNodes: result.UnresolvedNodes,
	})
}
