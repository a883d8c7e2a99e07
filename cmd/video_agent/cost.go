package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asapstudio/video-workflow/internal/costs"
	"github.com/asapstudio/video-workflow/internal/observability"
	"github.com/asapstudio/video-workflow/internal/types"
)

var costCommand = &cobra.Command{
	Use:   "cost",
	Short: "Estimate the cost of a workflow run before spending anything",
	RunE:  runCostCmd,
}

var (
	costBusiness string
	costScenes   int
	costBudget   float64
)

func init() {
	costCommand.Flags().StringVarP(&costBusiness, "business", "b", "", "Business description the estimate is based on")
	costCommand.Flags().IntVarP(&costScenes, "scenes", "s", types.DefaultSceneCount, "Number of scenes")
	costCommand.Flags().Float64Var(&costBudget, "budget", 0, "Budget ceiling to compare against (optional)")

	_ = costCommand.MarkFlagRequired("business")

	rootCmd.AddCommand(costCommand)
}

func runCostCmd(_ *cobra.Command, _ []string) error {
	est := costs.EstimateWorkflowCost(costBusiness, costScenes)
	observability.NewPrinter(os.Stdout).PrintCostEstimate(est)

	if costBudget > 0 {
		if est.Total > costBudget {
			fmt.Printf("Estimated total $%.2f exceeds the $%.2f budget; the run would stop after %d scene(s).\n",
				est.Total, costBudget, scenesWithinBudget(costBudget))
		} else {
			fmt.Printf("Estimated total $%.2f fits within the $%.2f budget.\n", est.Total, costBudget)
		}
	}
	return nil
}

// scenesWithinBudget returns how many clips fit under the ceiling
func scenesWithinBudget(budget float64) int {
	n := 0
	spent := 0.0
	for spent+costs.VeoCostPerVideo <= budget {
		spent += costs.VeoCostPerVideo
		n++
	}
	return n
}
