package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vsinha/factoryplan/pkg/application/services/planner"
	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/infrastructure/logger"
	"github.com/vsinha/factoryplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/factoryplan/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/factoryplan/pkg/interfaces/cli/output"
)

func main() {
	ctx := logger.WithRunID(context.Background(), logger.GenerateRunID())
	log := logger.New(logger.DefaultConfig(), os.Stderr)

	dataDir := filepath.Join("example", "data")
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	// Load the iron and copper starter catalog
	loader := csv.NewLoader()
	recipes, err := loader.LoadRecipes(filepath.Join(dataDir, "recipes.csv"))
	if err != nil {
		fmt.Printf("❌ Failed to load recipes: %v\n", err)
		return
	}
	power, err := loader.LoadMachines(filepath.Join(dataDir, "machines.csv"))
	if err != nil {
		fmt.Printf("❌ Failed to load machines: %v\n", err)
		return
	}
	demands, err := loader.LoadDemands(filepath.Join(dataDir, "demands.csv"))
	if err != nil {
		fmt.Printf("❌ Failed to load demands: %v\n", err)
		return
	}

	recipeRepo := memory.NewRecipeRepository(len(recipes))
	if err := recipeRepo.LoadRecipes(recipes); err != nil {
		fmt.Printf("❌ Failed to build catalog: %v\n", err)
		return
	}
	machineRepo := memory.NewMachineRepository()
	if err := machineRepo.LoadMachines(power); err != nil {
		fmt.Printf("❌ Failed to load machine power: %v\n", err)
		return
	}
	demandRepo := memory.NewDemandRepository()
	if err := demandRepo.LoadDemands(demands); err != nil {
		fmt.Printf("❌ Failed to load demands: %v\n", err)
		return
	}

	service, err := planner.NewService(
		recipeRepo,
		machineRepo,
		demandRepo,
		entities.SatisfactoryResources(),
		planner.Config{},
		planner.WithLogger(log),
	)
	if err != nil {
		fmt.Printf("❌ Failed to create planner: %v\n", err)
		return
	}

	fmt.Printf("🏭 Planning %d demands over %d recipes\n\n", len(demands), recipeRepo.Count())

	// Cost of the most expensive items first
	analysis, err := service.Analyze(ctx)
	if err != nil {
		fmt.Printf("❌ Analysis failed: %v\n", err)
		return
	}
	rows := output.SortAnalysis(analysis.Items, output.SortByWP, true)
	if len(rows) > 5 {
		rows = rows[:5]
	}
	if err := output.WriteAnalysisText(os.Stdout, rows); err != nil {
		fmt.Printf("❌ Output failed: %v\n", err)
		return
	}

	// Plan the stored demands with the default recipes
	plan, err := service.Plan(ctx, nil, planner.PlanOptions{})
	if err != nil {
		fmt.Printf("❌ Planning failed: %v\n", err)
		return
	}
	if err := output.GeneratePlan(os.Stdout, plan, service.RawResources(), output.Config{Format: output.FormatText}); err != nil {
		fmt.Printf("❌ Output failed: %v\n", err)
		return
	}

	// Compare against the cast screw alternate
	if err := recipeRepo.SetEnabled("Alternate: Cast Screw", true); err != nil {
		fmt.Printf("❌ Failed to enable alternate: %v\n", err)
		return
	}
	alternate, err := service.Plan(ctx, entities.DemandList{{Product: "Screw", Rate: 60}}, planner.PlanOptions{
		Pins: map[entities.ItemName]string{"Screw": "Alternate: Cast Screw"},
	})
	if err != nil {
		fmt.Printf("❌ Planning failed: %v\n", err)
		return
	}
	fmt.Println("🔁 60 Screw/min with Alternate: Cast Screw")
	if err := output.WriteSummaryText(os.Stdout, alternate); err != nil {
		fmt.Printf("❌ Output failed: %v\n", err)
	}
}
