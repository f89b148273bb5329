package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/akarpenko/tempo/internal/db"
	"github.com/akarpenko/tempo/internal/models"
	"github.com/akarpenko/tempo/internal/parser"
	"github.com/akarpenko/tempo/internal/tracker"
	"github.com/akarpenko/tempo/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start <description>",
	Short: "Start tracking a work session",
	Long: `Start tracking a work session. Natural syntax is supported in the
description: #tags, @project and +priority are extracted.

Examples:
  tempo start "Fix login flow #bug @webapp"
  tempo start "Write report" --estimate 90 --pause-active
  tempo start "Standup" --no-ui`,
	Args: cobra.MinimumNArgs(1),
	Run: withStore(func(cmd *cobra.Command, args []string) {
		parsed := parser.ParseEntry(strings.Join(args, " "))
		for _, msg := range parsed.Errors {
			fmt.Printf("Warning: %s\n", msg)
		}

		opts := tracker.StartOptions{
			Description: parsed.Description,
			Project:     parsed.Project,
			Tags:        parsed.Tags,
		}
		if project, _ := cmd.Flags().GetString("project"); project != "" {
			opts.Project = project
		}
		if tags, _ := cmd.Flags().GetStringSlice("tag"); len(tags) > 0 {
			opts.Tags = append(opts.Tags, tags...)
		}
		if estimate, _ := cmd.Flags().GetInt("estimate"); estimate > 0 {
			opts.EstimateMinutes = &estimate
		}
		opts.PauseActive, _ = cmd.Flags().GetBool("pause-active")

		result, err := manager.Start(opts)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if result.Paused != nil {
			fmt.Printf("⏸️  Paused session #%d: %s\n", result.Paused.ID, result.Paused.Description)
		}

		session := result.Started
		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			fmt.Printf("⏱️  Started session #%d: %s\n", session.ID, session.Description)
			fmt.Printf("Started at: %s\n", session.StartedAt.Format("15:04:05"))
			return
		}
		runTimer(session)
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the active session",
	Run: withStore(func(cmd *cobra.Command, args []string) {
		remark, _ := cmd.Flags().GetString("remark")
		if interactive, _ := cmd.Flags().GetBool("interactive"); interactive && remark == "" {
			entered, err := tui.PromptRemark()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			remark = entered
		}

		var duration *int
		if minutes, _ := cmd.Flags().GetInt("duration"); minutes > 0 {
			duration = &minutes
		}

		session, err := manager.Stop(nil, remark, duration)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		elapsed := session.EndedAt.Sub(session.StartedAt)
		fmt.Printf("⏹️  Stopped session #%d: %s\n", session.ID, session.Description)
		fmt.Printf("Session duration: %s\n", formatDuration(elapsed))
	}),
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the active session to resume later",
	Run: withStore(func(cmd *cobra.Command, args []string) {
		session, err := manager.Pause(nil)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("⏸️  Paused session #%d: %s\n", session.ID, session.Description)
		fmt.Printf("Resume it with 'tempo resume %d'\n", session.ID)
	}),
}

var resumeCmd = &cobra.Command{
	Use:   "resume [session-id]",
	Short: "Resume a paused session",
	Long: `Resume a paused session. Without an id the most recently paused
session is resumed. Resuming starts a fresh session linked into the same
chain; an already-active session is paused first.`,
	Args: cobra.MaximumNArgs(1),
	Run: withStore(func(cmd *cobra.Command, args []string) {
		var id uint
		if len(args) == 1 {
			parsed, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				fmt.Printf("Error: invalid session ID '%s'\n", args[0])
				return
			}
			id = uint(parsed)
		} else {
			target, err := store.FindPausedToResume("", "", "")
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			if target == nil {
				fmt.Println("No paused session to resume")
				return
			}
			id = target.ID
		}

		result, err := manager.Resume(id, nil)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if result.Paused != nil {
			fmt.Printf("⏸️  Paused session #%d: %s\n", result.Paused.ID, result.Paused.Description)
		}

		session := result.Started
		fmt.Printf("⏱️  Resumed as session #%d: %s\n", session.ID, session.Description)
		if noUI, _ := cmd.Flags().GetBool("no-ui"); !noUI {
			runTimer(session)
		}
	}),
}

var abandonCmd = &cobra.Command{
	Use:   "abandon <session-id>",
	Short: "Discard a session without completing it",
	Args:  cobra.ExactArgs(1),
	Run: withStore(func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid session ID '%s'\n", args[0])
			return
		}

		session, err := manager.Abandon(uint(id))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🗑️  Abandoned session #%d: %s\n", session.ID, session.Description)
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active session",
	Run: withStore(func(cmd *cobra.Command, args []string) {
		session, err := manager.Active()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if session == nil {
			fmt.Println("No active session")
			return
		}

		if withUI, _ := cmd.Flags().GetBool("ui"); withUI {
			runTimer(session)
			return
		}

		fmt.Printf("⏱️  Tracking session #%d: %s\n", session.ID, session.Description)
		if session.Project != "" {
			fmt.Printf("Project: %s\n", session.Project)
		}
		fmt.Printf("Started at: %s\n", session.StartedAt.Format("15:04:05"))
		fmt.Printf("Elapsed time: %s\n", formatDuration(time.Since(session.StartedAt)))

		chain, err := store.ContinuationChain(session.ID)
		if err == nil && len(chain) > 1 {
			fmt.Printf("Chain: %d sessions, %s total\n",
				len(chain), formatDuration(time.Duration(db.ChainMinutes(chain, time.Now()))*time.Minute))
		}
	}),
}

// runTimer opens the interactive timer and applies the chosen action when
// it closes
func runTimer(session *models.Session) {
	chainMinutes := 0
	chainCount := 1
	if chain, err := store.ContinuationChain(session.ID); err == nil && len(chain) > 0 {
		chainMinutes = db.ChainMinutes(chain, time.Now())
		chainCount = len(chain)
	}

	action, err := tui.RunTimer(session, chainMinutes, chainCount)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	switch action {
	case tui.TimerStop:
		stopped, err := manager.Stop(nil, "", nil)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("⏹️  Stopped session #%d after %s\n",
			stopped.ID, formatDuration(stopped.EndedAt.Sub(stopped.StartedAt)))
	case tui.TimerPause:
		paused, err := manager.Pause(nil)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("⏸️  Paused session #%d, resume with 'tempo resume %d'\n", paused.ID, paused.ID)
	default:
		fmt.Printf("⏱️  Session #%d still running\n", session.ID)
	}
}

func init() {
	startCmd.Flags().String("project", "", "Project label")
	startCmd.Flags().StringSlice("tag", nil, "Tags to attach (repeatable)")
	startCmd.Flags().Int("estimate", 0, "Estimate in minutes")
	startCmd.Flags().Bool("pause-active", false, "Pause an already-active session instead of failing")
	startCmd.Flags().Bool("no-ui", false, "Start without the interactive timer")

	stopCmd.Flags().String("remark", "", "Closing remark")
	stopCmd.Flags().Int("duration", 0, "Override duration in minutes")
	stopCmd.Flags().BoolP("interactive", "i", false, "Prompt for a closing remark")

	resumeCmd.Flags().Bool("no-ui", false, "Resume without the interactive timer")

	statusCmd.Flags().Bool("ui", false, "Open the interactive timer")
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}
