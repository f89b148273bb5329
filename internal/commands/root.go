package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/akarpenko/tempo/internal/config"
	"github.com/akarpenko/tempo/internal/db"
	"github.com/akarpenko/tempo/internal/planner"
	"github.com/akarpenko/tempo/internal/tracker"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfg     config.Config
	store   *db.Store
	manager *tracker.Manager
	plans   *planner.Selector

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tempo",
	Short: "A personal time tracker and daily planner",
	Long: `tempo tracks work sessions with pause/resume chains and plans your day
by merging unfinished work with your urgent, important and oldest tasks.`,
}

// initStore loads config and opens the database
func initStore() error {
	var err error
	cfg, err = config.LoadDefault()
	if err != nil {
		return err
	}

	level := logrus.WarnLevel
	if parsed, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		level = parsed
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	dbPath, err := cfg.ResolveDatabasePath()
	if err != nil {
		return err
	}
	store, err = db.Open(dbPath)
	if err != nil {
		return err
	}

	manager = tracker.New(store)
	plans = planner.New(store)
	return nil
}

// withStore wraps a command function to open the database first
func withStore(fn func(*cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := initStore(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer store.Close()
		fn(cmd, args)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tempo %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(abandonCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(versionCmd)
}
