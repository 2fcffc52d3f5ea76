package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vsinha/factoryplan/pkg/application/services/analysis"
	"github.com/vsinha/factoryplan/pkg/application/services/planner"
	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/infrastructure/config"
	"github.com/vsinha/factoryplan/pkg/infrastructure/logger"
	"github.com/vsinha/factoryplan/pkg/infrastructure/metrics"
	"github.com/vsinha/factoryplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/factoryplan/pkg/infrastructure/repositories/gamedata"
	"github.com/vsinha/factoryplan/pkg/infrastructure/repositories/memory"
)

// workspace is a loaded catalog wired to a planner service
type workspace struct {
	settings *config.Config
	logger   *slog.Logger
	metrics  *metrics.Recorder
	recipes  *memory.RecipeRepository
	machines *memory.MachineRepository
	demands  *memory.DemandRepository
	raw      *entities.RawResourceTable
	service  *planner.Service
}

type catalogData struct {
	recipes []*entities.Recipe
	power   entities.MachinePowerMap
	avail   map[entities.ItemName]float64
	demands []*entities.Demand
}

// loadWorkspace reads settings and catalog files and builds the planner service
func loadWorkspace(cfg Config) (*workspace, error) {
	if cfg.DataDir == "" && cfg.RecipesFile == "" && cfg.GameDataFile == "" {
		return nil, fmt.Errorf("must specify either -data directory, -recipes file or -gamedata file")
	}

	var envFiles []string
	if cfg.EnvFile != "" {
		envFiles = append(envFiles, cfg.EnvFile)
	}
	settings, err := config.Load(envFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:       settings.LogLevel,
		Format:      settings.LogFormat,
		ServiceName: logger.DefaultServiceName,
		Version:     logger.DefaultVersion,
		Environment: logger.EnvironmentDev,
	}, cfg.stderr())

	data, err := loadCatalog(cfg, log)
	if err != nil {
		return nil, err
	}

	ws := &workspace{
		settings: settings,
		logger:   log,
		metrics:  metrics.NewRecorder(),
		recipes:  memory.NewRecipeRepository(len(data.recipes)),
		machines: memory.NewMachineRepository(),
		demands:  memory.NewDemandRepository(),
	}

	if err := ws.recipes.LoadRecipes(data.recipes); err != nil {
		return nil, fmt.Errorf("failed to load recipes into repository: %w", err)
	}
	if err := ws.machines.LoadMachines(data.power); err != nil {
		return nil, fmt.Errorf("failed to load machines into repository: %w", err)
	}
	if err := ws.demands.LoadDemands(data.demands); err != nil {
		return nil, fmt.Errorf("failed to load demands into repository: %w", err)
	}

	if err := applyOverrides(ws.recipes, cfg.Enable, true); err != nil {
		return nil, err
	}
	if err := applyOverrides(ws.recipes, cfg.Disable, false); err != nil {
		return nil, err
	}

	ws.raw, err = entities.NewRawResourceTable(
		data.avail,
		settings.Policy(),
		entities.ItemName(settings.ReferenceResource),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid raw resource table: %w", err)
	}

	ws.service, err = planner.NewService(
		ws.recipes,
		ws.machines,
		ws.demands,
		ws.raw,
		planner.Config{
			Engine: analysis.EngineConfig{
				Threshold:   settings.Threshold,
				MaxPasses:   settings.MaxPasses,
				EnabledOnly: cfg.EnabledOnly,
			},
			CacheSize: settings.CacheSize,
		},
		planner.WithLogger(log),
		planner.WithMetrics(ws.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create planner: %w", err)
	}

	log.Debug("workspace loaded",
		"recipes", ws.recipes.Count(),
		"machines", len(data.power),
		"raw_resources", len(data.avail),
		"demands", len(data.demands))
	return ws, nil
}

func loadCatalog(cfg Config, log *slog.Logger) (*catalogData, error) {
	data := &catalogData{power: entities.MachinePowerMap{}}
	files := cfg.sourceFiles()
	loader := csv.NewLoader()

	if cfg.GameDataFile != "" {
		catalog, err := gamedata.NewLoader().LoadFile(cfg.GameDataFile)
		if err != nil {
			return nil, fmt.Errorf("error loading game data: %w", err)
		}
		for _, skipped := range catalog.Skipped {
			log.Debug("skipped game data recipe", "recipe", skipped.Name, "reason", skipped.Reason)
		}
		log.Info("game data loaded", "format", catalog.Format.String(), "recipes", len(catalog.Recipes))
		data.recipes = catalog.Recipes
		for name, power := range catalog.MachinePower {
			data.power[name] = power
		}
	} else {
		if !fileExists(files["Recipes"]) {
			return nil, fmt.Errorf("recipes file not found: %s", files["Recipes"])
		}
		recipes, err := loader.LoadRecipes(files["Recipes"])
		if err != nil {
			return nil, fmt.Errorf("error loading recipes: %w", err)
		}
		data.recipes = recipes
	}

	if fileExists(files["Machines"]) {
		power, err := loader.LoadMachines(files["Machines"])
		if err != nil {
			return nil, fmt.Errorf("error loading machines: %w", err)
		}
		for name, draw := range power {
			data.power[name] = draw
		}
	} else if cfg.MachinesFile != "" {
		return nil, fmt.Errorf("machines file not found: %s", cfg.MachinesFile)
	}

	if fileExists(files["Resources"]) {
		avail, err := loader.LoadResources(files["Resources"])
		if err != nil {
			return nil, fmt.Errorf("error loading resources: %w", err)
		}
		data.avail = avail
	} else if cfg.ResourcesFile != "" {
		return nil, fmt.Errorf("resources file not found: %s", cfg.ResourcesFile)
	} else {
		data.avail = entities.SatisfactoryResources().Availability
	}

	if fileExists(files["Demands"]) {
		demands, err := loader.LoadDemands(files["Demands"])
		if err != nil {
			return nil, fmt.Errorf("error loading demands: %w", err)
		}
		data.demands = demands
	} else if cfg.DemandsFile != "" {
		return nil, fmt.Errorf("demands file not found: %s", cfg.DemandsFile)
	}

	return data, nil
}

func applyOverrides(repo *memory.RecipeRepository, names []string, enabled bool) error {
	for _, name := range names {
		if err := repo.SetEnabled(name, enabled); err != nil {
			return fmt.Errorf("failed to apply recipe override: %w", err)
		}
	}
	return nil
}

// finish writes the metrics textfile when one was requested
func (ws *workspace) finish(cfg Config) error {
	if cfg.MetricsFile == "" {
		return nil
	}
	return ws.metrics.WriteTextfile(cfg.MetricsFile)
}

// runContext tags ctx with a fresh run ID for log correlation
func runContext(ctx context.Context) context.Context {
	return logger.WithRunID(ctx, logger.GenerateRunID())
}

// parseDemands reads "Product=rate" or bare "Product" entries. An empty list yields nil,
// which tells the planner to use the stored demands.
func parseDemands(entries []string) (entities.DemandList, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	demands := make(entities.DemandList, 0, len(entries))
	for _, entry := range entries {
		product, rate := entry, entities.DefaultDemandRate
		if sep := strings.LastIndex(entry, "="); sep >= 0 {
			product = entry[:sep]
			parsed, err := strconv.ParseFloat(strings.TrimSpace(entry[sep+1:]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid rate in %q", entities.ErrInvalidDemand, entry)
			}
			rate = parsed
		}

		demand, err := entities.NewDemand(entities.ItemName(strings.TrimSpace(product)), rate)
		if err != nil {
			return nil, err
		}
		demands = append(demands, *demand)
	}
	return demands, nil
}
