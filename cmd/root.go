package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizly",
	Short: "Timed multiple-choice quizzes in your terminal",
	Long: `Quizly is a terminal quiz game. Pick a topic, clear its levels one by one
against a per-question countdown, and ask an AI tutor about the questions you missed.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command. An interrupt cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZLY_DB env var)")
	rootCmd.PersistentFlags().String("data", "", "Directory with topics and questions files (overrides QUIZLY_DATA env var)")
	rootCmd.PersistentFlags().String("log", "", "Write TUI logs as JSON to this file (overrides QUIZLY_LOG env var)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug messages")
	rootCmd.PersistentFlags().Bool("ephemeral", false, "Keep progress in memory only")
	rootCmd.PersistentFlags().Int("timer", 0, "Seconds per question (default 15)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZLY_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// flagOrEnv returns the string flag name when set, else the env variable.
func flagOrEnv(cmd *cobra.Command, name, env string) string {
	if v, _ := cmd.Flags().GetString(name); v != "" {
		return v
	}
	return os.Getenv(env)
}
