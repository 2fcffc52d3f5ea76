package planner

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/vsinha/factoryplan/pkg/application/services/analysis"
	"github.com/vsinha/factoryplan/pkg/application/services/breakdown"
	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/domain/repositories"
	domainservices "github.com/vsinha/factoryplan/pkg/domain/services"
	"github.com/vsinha/factoryplan/pkg/infrastructure/logger"
	"github.com/vsinha/factoryplan/pkg/infrastructure/metrics"
)

const tracerName = "github.com/vsinha/factoryplan/pkg/application/services/planner"

// DefaultCacheSize is the number of analysis results kept when Config.CacheSize is zero
const DefaultCacheSize = 16

// Selector strategies understood by Plan
const (
	SelectorCatalog  = "catalog"
	SelectorCheapest = "cheapest"
)

// Config holds planner configuration
type Config struct {
	Engine    analysis.EngineConfig
	CacheSize int
}

// PlanOptions tune a single Plan call
type PlanOptions struct {
	// Selector is SelectorCatalog (default) or SelectorCheapest
	Selector string
	// Pins forces a recipe for specific products when that recipe is enabled
	Pins map[entities.ItemName]string
}

// AnalysisResult is one cost propagation run over the current catalog
type AnalysisResult struct {
	Items       entities.AnalysisMap
	Stats       analysis.Stats
	Fingerprint string
	Cached      bool
}

// Service coordinates the catalog repositories, the cost engine and the tree builder
type Service struct {
	recipeRepo  repositories.RecipeRepository
	machineRepo repositories.MachineRepository
	demandRepo  repositories.DemandRepository
	raw         *entities.RawResourceTable
	engine      *analysis.Engine
	validator   *domainservices.RecipeValidator
	cache       *lru.Cache[string, *AnalysisResult]
	metrics     *metrics.Recorder
	logger      *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the base logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics records planner activity on r
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = r }
}

// NewService creates a planner service
func NewService(
	recipeRepo repositories.RecipeRepository,
	machineRepo repositories.MachineRepository,
	demandRepo repositories.DemandRepository,
	raw *entities.RawResourceTable,
	config Config,
	opts ...Option,
) (*Service, error) {
	if recipeRepo == nil || machineRepo == nil {
		return nil, fmt.Errorf("recipe and machine repositories are required")
	}
	if raw == nil {
		return nil, fmt.Errorf("raw resource table is required")
	}
	if err := raw.Validate(); err != nil {
		return nil, fmt.Errorf("invalid raw resource table: %w", err)
	}

	if config.CacheSize <= 0 {
		config.CacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *AnalysisResult](config.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis cache: %w", err)
	}

	s := &Service{
		recipeRepo:  recipeRepo,
		machineRepo: machineRepo,
		demandRepo:  demandRepo,
		raw:         raw,
		validator:   domainservices.NewRecipeValidator(),
		cache:       cache,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = analysis.NewEngineWithConfig(config.Engine, s.logger)

	return s, nil
}

// RawResources returns the raw resource table in use
func (s *Service) RawResources() *entities.RawResourceTable {
	return s.raw
}

// Analyze computes item costs for the current catalog, reusing a cached run when
// neither the catalog nor the machine power map changed. The result is shared and must not be modified.
func (s *Service) Analyze(ctx context.Context) (*AnalysisResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "planner.analyze")
	defer span.End()
	log := logger.FromContext(ctx, s.logger)

	recipes, err := s.recipeRepo.GetAllRecipes()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	power := s.machineRepo.MachinePower()

	key := Fingerprint(recipes, power, s.raw, s.engine.Config())
	span.SetAttributes(
		attribute.String("catalog.fingerprint", key),
		attribute.Int("catalog.recipes", len(recipes)),
	)

	if cached, ok := s.cache.Get(key); ok {
		s.metrics.ObserveCache(true)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		log.Debug("analysis cache hit", "fingerprint", key)
		hit := *cached
		hit.Cached = true
		return &hit, nil
	}
	s.metrics.ObserveCache(false)
	span.SetAttributes(attribute.Bool("cache.hit", false))

	items, stats, err := s.engine.ComputeItemAnalysis(recipes, power, s.raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to compute item analysis: %w", err)
	}
	s.metrics.ObserveAnalysis(stats.Passes, stats.ResolvedItems, stats.Converged)
	span.SetAttributes(
		attribute.Int("analysis.passes", stats.Passes),
		attribute.Int("analysis.resolved_items", stats.ResolvedItems),
	)

	log.Info("item analysis computed",
		"recipes", len(recipes),
		"resolved_items", stats.ResolvedItems,
		"passes", stats.Passes,
		"converged", stats.Converged)

	result := &AnalysisResult{Items: items, Stats: stats, Fingerprint: key}
	s.cache.Add(key, result)
	return result, nil
}

// Plan expands demands into a production forest and aggregates it.
// A nil demand list means the demands stored in the demand repository.
func (s *Service) Plan(ctx context.Context, demands entities.DemandList, opts PlanOptions) (*entities.PlanResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "planner.plan")
	defer span.End()
	log := logger.FromContext(ctx, s.logger)

	fail := func(err error) (*entities.PlanResult, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if demands == nil && s.demandRepo != nil {
		stored, err := s.demandRepo.GetDemands()
		if err != nil {
			return fail(fmt.Errorf("failed to load demands: %w", err))
		}
		demands = stored
	}
	for _, d := range demands {
		if _, err := entities.NewDemand(d.Product, d.Rate); err != nil {
			return fail(err)
		}
	}

	selector, err := s.selector(ctx, opts)
	if err != nil {
		return fail(err)
	}

	recipes, err := s.recipeRepo.GetAllRecipes()
	if err != nil {
		return fail(fmt.Errorf("failed to load recipes: %w", err))
	}

	builder := breakdown.NewBuilder(recipes, s.recipeRepo.EnabledSet(), s.raw, selector)
	forest := builder.BuildForest(demands)
	result := breakdown.Summarize(forest, s.raw)

	s.metrics.ObservePlan(len(demands), result.CycleNodes, result.UnresolvedNodes)
	span.SetAttributes(
		attribute.Int("plan.demands", len(demands)),
		attribute.String("plan.selector", selector.Name()),
		attribute.Int("plan.cycle_nodes", result.CycleNodes),
		attribute.Int("plan.unresolved_nodes", result.UnresolvedNodes),
	)

	if result.UnresolvedNodes > 0 {
		log.Warn("plan has unresolved products", "count", result.UnresolvedNodes)
	}
	log.Info("production plan built",
		"demands", len(demands),
		"selector", selector.Name(),
		"machines", len(result.Machines),
		"raw_resources", len(result.RawResources))

	return result, nil
}

func (s *Service) selector(ctx context.Context, opts PlanOptions) (breakdown.RecipeSelector, error) {
	var base breakdown.RecipeSelector
	switch opts.Selector {
	case "", SelectorCatalog:
		base = breakdown.CatalogOrder{}
	case SelectorCheapest:
		costs, err := s.Analyze(ctx)
		if err != nil {
			return nil, err
		}
		base = breakdown.NewLowestCost(costs.Items)
	default:
		return nil, fmt.Errorf("invalid selector: %s (expected: %s or %s)", opts.Selector, SelectorCatalog, SelectorCheapest)
	}

	if len(opts.Pins) > 0 {
		return breakdown.NewPinned(opts.Pins, base), nil
	}
	return base, nil
}

// ValidateCatalog checks the current catalog against the raw resource table
func (s *Service) ValidateCatalog() (*domainservices.ValidationResult, error) {
	recipes, err := s.recipeRepo.GetAllRecipes()
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	return s.validator.ValidateCatalog(recipes, s.raw), nil
}

// SearchProducts suggests products whose names contain query, skipping those already requested
func (s *Service) SearchProducts(query string, requested entities.DemandList) []entities.ItemName {
	return s.recipeRepo.SearchProducts(query, requested.Products())
}
