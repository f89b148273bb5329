package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/akarpenko/tempo/internal/parser"
	"github.com/akarpenko/tempo/internal/planner"
)

var addCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Schedule a task for later",
	Long: `Schedule a task. Natural syntax is supported in the description:
#tags, @project, +priority (1-9, 1 = most important) and due:<when>.

Examples:
  tempo add "Review PR #code @webapp +2"
  tempo add "Renew passport due:2 weeks"
  tempo add "Ship release" --due "15/12/2026" --estimate 120`,
	Args: cobra.MinimumNArgs(1),
	Run: withStore(func(cmd *cobra.Command, args []string) {
		parsed := parser.ParseEntry(strings.Join(args, " "))
		for _, msg := range parsed.Errors {
			fmt.Printf("Warning: %s\n", msg)
		}

		input := planner.AddTaskInput{
			Description: parsed.Description,
			Project:     parsed.Project,
			Tags:        parsed.Tags,
			Priority:    parsed.Priority,
			ScheduledAt: parsed.Due,
		}
		if project, _ := cmd.Flags().GetString("project"); project != "" {
			input.Project = project
		}
		if tags, _ := cmd.Flags().GetStringSlice("tag"); len(tags) > 0 {
			input.Tags = append(input.Tags, tags...)
		}
		if priority, _ := cmd.Flags().GetInt("priority"); priority > 0 {
			input.Priority = priority
		}
		if estimate, _ := cmd.Flags().GetInt("estimate"); estimate > 0 {
			input.EstimateMinutes = &estimate
		}
		if due, _ := cmd.Flags().GetString("due"); due != "" {
			when, err := parser.ParseWhen(due)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			input.ScheduledAt = when
		}

		task, err := plans.AddTask(input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("✅ Scheduled task #%d: %s\n", task.ID, task.Description)
		if task.ScheduledAt != nil {
			fmt.Printf("%s\n", parser.FormatDue(task.ScheduledAt))
		}
	}),
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List scheduled tasks",
	Run: withStore(func(cmd *cobra.Command, args []string) {
		tasks, err := store.AllTasks()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(tasks) == 0 {
			fmt.Println("No scheduled tasks")
			return
		}

		for _, task := range tasks {
			line := fmt.Sprintf("#%-4d [p%d] %s", task.ID, task.Priority, task.Description)
			if task.Project != "" {
				line += " @" + task.Project
			}
			if len(task.Tags) > 0 {
				line += " #" + strings.Join(task.TagNames(), ",")
			}
			if task.ScheduledAt != nil {
				line += "  " + parser.FormatDue(task.ScheduledAt)
			}
			fmt.Println(line)
		}
	}),
}

var doneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Complete a task or resumable session",
	Args:  cobra.ExactArgs(1),
	Run: withStore(func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid task ID '%s'\n", args[0])
			return
		}

		var minutes *int
		if actual, _ := cmd.Flags().GetInt("minutes"); actual > 0 {
			minutes = &actual
		}

		if err := plans.CompleteTask(uint(id), time.Now(), minutes); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("✅ Completed #%d\n", id)
	}),
}

var rmCmd = &cobra.Command{
	Use:   "rm <task-id>",
	Short: "Delete a task or session",
	Args:  cobra.ExactArgs(1),
	Run: withStore(func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid task ID '%s'\n", args[0])
			return
		}

		if err := plans.RemoveTask(uint(id)); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🗑️  Removed #%d\n", id)
	}),
}

func init() {
	addCmd.Flags().String("project", "", "Project label")
	addCmd.Flags().StringSlice("tag", nil, "Tags to attach (repeatable)")
	addCmd.Flags().IntP("priority", "p", 0, "Priority 1-9, 1 = most important")
	addCmd.Flags().Int("estimate", 0, "Estimate in minutes")
	addCmd.Flags().String("due", "", "Due date (dd/mm/yyyy or relative like '3 days')")

	doneCmd.Flags().Int("minutes", 0, "Actual minutes spent")
}
