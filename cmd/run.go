package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/app"
	"github.com/abhisek/quizly/internal/feedback"
	"github.com/abhisek/quizly/internal/llm"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the quiz (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	timer, _ := cmd.Flags().GetInt("timer")
	opts := app.Options{
		Bank:         e.Bank,
		Progress:     e.Progress,
		Selection:    e.Selection,
		Results:      e.Results,
		Attempts:     e.Attempts,
		Logger:       e.Logger,
		TimerSeconds: timer,
	}

	// Feedback is optional; the app works without it.
	provider, cfg, err := llm.NewProviderFromEnv(ctx, e.EventRepo(), e.Logger)
	switch {
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI feedback will be unavailable.")
	case provider != nil:
		e.Logger.Info("llm provider ready", "provider", cfg.Provider, "model", provider.ModelID())
		opts.Feedback = feedback.NewService(provider, e.Logger, feedback.WithTimeout(cfg.Timeout), feedback.WithMaxTokens(cfg.MaxTokens))
	}

	return app.Run(ctx, opts)
}
