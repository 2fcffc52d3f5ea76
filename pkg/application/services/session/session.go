// Package session keeps an editable demand list and recipe selection on top of
// the planner, recording every change in an event log.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vsinha/factoryplan/pkg/application/services/planner"
	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/domain/repositories"
	"github.com/vsinha/factoryplan/pkg/infrastructure/events"
)

// Session is an interactive planning session. The last plan is reused until a
// demand or recipe change event marks it stale. It is safe for concurrent use;
// a change that arrives while a plan is being built leaves the session stale.
type Session struct {
	service *planner.Service
	recipes repositories.RecipeRepository
	store   events.EventStore
	opts    planner.PlanOptions
	logger  *slog.Logger

	mu         sync.Mutex
	demands    entities.DemandList
	last       *entities.PlanResult
	stale      bool
	generation uint64
}

// New starts a session with a copy of the initial demands
func New(
	service *planner.Service,
	recipes repositories.RecipeRepository,
	store events.EventStore,
	initial entities.DemandList,
	opts planner.PlanOptions,
	logger *slog.Logger,
) (*Session, error) {
	if service == nil || recipes == nil || store == nil {
		return nil, fmt.Errorf("planner, recipe repository and event store are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		service: service,
		recipes: recipes,
		store:   store,
		opts:    opts,
		logger:  logger,
		demands: append(make(entities.DemandList, 0, len(initial)), initial...),
		stale:   true,
	}
	if err := store.Subscribe(events.ChangeEvents, (*invalidator)(s)); err != nil {
		return nil, fmt.Errorf("failed to subscribe to session events: %w", err)
	}
	return s, nil
}

// Demands returns a copy of the current demand list
func (s *Session) Demands() entities.DemandList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(entities.DemandList(nil), s.demands...)
}

// SetDemand adds a product or changes the rate of one already requested
func (s *Session) SetDemand(product entities.ItemName, rate float64) error {
	demand, err := entities.NewDemand(product, rate)
	if err != nil {
		return err
	}

	s.mu.Lock()
	var event events.Event
	for i, existing := range s.demands {
		if existing.Product == product {
			s.demands[i] = *demand
			event = events.NewDemandUpdatedEvent(existing, *demand)
			break
		}
	}
	if event == nil {
		s.demands = append(s.demands, *demand)
		event = events.NewDemandAddedEvent(*demand)
	}
	s.mu.Unlock()

	return s.store.AppendEvent(events.DemandStream, event)
}

// RemoveDemand drops a product from the demand list
func (s *Session) RemoveDemand(product entities.ItemName) error {
	s.mu.Lock()
	idx := -1
	for i, existing := range s.demands {
		if existing.Product == product {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", entities.ErrDemandNotFound, product)
	}
	removed := s.demands[idx]
	s.demands = append(s.demands[:idx], s.demands[idx+1:]...)
	s.mu.Unlock()

	return s.store.AppendEvent(events.DemandStream, events.NewDemandRemovedEvent(removed))
}

// SetRecipeEnabled toggles a recipe in the catalog
func (s *Session) SetRecipeEnabled(name string, enabled bool) error {
	if err := s.recipes.SetEnabled(name, enabled); err != nil {
		return err
	}
	return s.store.AppendEvent(events.RecipeStream, events.NewRecipeToggledEvent(name, enabled))
}

// Stale reports whether the next Plan call rebuilds the plan
func (s *Session) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale || s.last == nil
}

// Plan returns the plan for the current demands, rebuilding it only when stale
func (s *Session) Plan(ctx context.Context) (*entities.PlanResult, error) {
	s.mu.Lock()
	if !s.stale && s.last != nil {
		last := s.last
		s.mu.Unlock()
		return last, nil
	}
	demands := append(make(entities.DemandList, 0, len(s.demands)), s.demands...)
	generation := s.generation
	s.mu.Unlock()

	result, err := s.service.Plan(ctx, demands, s.opts)
	if err != nil {
		return nil, err
	}

	// A change that landed while planning keeps the session stale
	s.mu.Lock()
	if s.generation == generation {
		s.last = result
		s.stale = false
	}
	s.mu.Unlock()

	if err := s.store.AppendEvent(events.PlanStream, events.NewPlanBuiltEvent(len(demands), result)); err != nil {
		return nil, err
	}
	s.logger.Debug("session plan rebuilt", "demands", len(demands))
	return result, nil
}

// Analyze returns item costs for the current catalog
func (s *Session) Analyze(ctx context.Context) (*planner.AnalysisResult, error) {
	return s.service.Analyze(ctx)
}

// Search suggests products not yet in the demand list
func (s *Session) Search(query string) []entities.ItemName {
	return s.service.SearchProducts(query, s.Demands())
}

// RawResources returns the raw resource table plans are built against
func (s *Session) RawResources() *entities.RawResourceTable {
	return s.service.RawResources()
}

// Events returns the session change log from position onwards
func (s *Session) Events(position int) ([]events.Event, error) {
	return s.store.ReadAllEvents(position)
}

// invalidator marks the cached plan stale on every demand or recipe change
type invalidator Session

func (h *invalidator) Handle(event events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stale = true
	h.generation++
	return nil
}

func (h *invalidator) CanHandle(eventType string) bool {
	for _, t := range events.ChangeEvents {
		if t == eventType {
			return true
		}
	}
	return false
}
