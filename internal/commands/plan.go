package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/akarpenko/tempo/internal/planner"
	"github.com/akarpenko/tempo/internal/scheduler"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show today's plan",
	Long: `Build today's plan: unfinished session chains first, then tasks due
today or overdue, then explicitly prioritized tasks, then the oldest
backlog, deduplicated and capped.`,
	Run: withStore(func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = cfg.PlanLimit
		}

		adapter := scheduler.NewAdapter(plans)
		plan, err := adapter.DailyPlan(time.Now(), scheduler.PlanOptions{Limit: limit})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			out, err := json.MarshalIndent(plan, "", "  ")
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Println(string(out))
			return
		}

		printPlan(plan)
	}),
}

func printPlan(plan *planner.Plan) {
	fmt.Printf("📋 Plan for %s\n\n", plan.Date.Format("Mon 02 Jan"))

	if len(plan.Items) == 0 {
		fmt.Println("Nothing planned. Add tasks with 'tempo add'.")
		return
	}

	for i, item := range plan.Items {
		marker := "·"
		if item.Kind == planner.KindSession {
			marker = "↻" // resumable work
		}
		line := fmt.Sprintf("%2d %s #%-4d %s", i+1, marker, item.ID, item.Description)
		if item.Project != "" {
			line += " @" + item.Project
		}
		if item.EstimateMinutes != nil {
			line += fmt.Sprintf(" (%dm)", *item.EstimateMinutes)
		}
		if item.ChainSessions > 1 {
			line += fmt.Sprintf(" [chain: %d sessions, %dm]", item.ChainSessions, item.ChainMinutes)
		}
		fmt.Println(line)
	}

	fmt.Printf("\nEstimated: %dm · Remaining in day: %dm\n",
		plan.TotalMinutes, plan.RemainingMinutes)
}

func init() {
	planCmd.Flags().IntP("limit", "n", 0, "Maximum plan entries")
	planCmd.Flags().Bool("json", false, "Output as JSON")
}
