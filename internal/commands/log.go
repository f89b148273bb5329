package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/akarpenko/tempo/internal/db"
	"github.com/akarpenko/tempo/internal/models"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show tracked sessions",
	Run: withStore(func(cmd *cobra.Command, args []string) {
		days, _ := cmd.Flags().GetInt("days")
		if days < 1 {
			days = 1
		}

		now := time.Now()
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, 1)
		start := end.AddDate(0, 0, -days)

		filter := db.SessionFilter{}
		if project, _ := cmd.Flags().GetString("project"); project != "" {
			filter.Project = project
		}
		if tags, _ := cmd.Flags().GetStringSlice("tag"); len(tags) > 0 {
			filter.Tags = tags
		}

		sessions, err := store.SessionsByTimeRange(start, end, filter)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions in range")
			return
		}

		var total time.Duration
		for _, sess := range sessions {
			minutes := sess.Minutes(now)
			total += time.Duration(minutes) * time.Minute

			line := fmt.Sprintf("#%-4d %s  %-9s %s",
				sess.ID,
				sess.StartedAt.Format("Mon 15:04"),
				sess.State,
				sess.Description)
			if sess.Project != "" {
				line += " @" + sess.Project
			}
			line += fmt.Sprintf("  %dm", minutes)
			if sess.State == models.StateWorking {
				line += " (running)"
			}
			fmt.Println(line)
		}

		fmt.Printf("\nTotal: %s across %d sessions\n", formatDuration(total), len(sessions))
	}),
}

func init() {
	logCmd.Flags().IntP("days", "d", 1, "How many days back to show")
	logCmd.Flags().String("project", "", "Filter by project")
	logCmd.Flags().StringSlice("tag", nil, "Filter by tag (repeatable)")
}
