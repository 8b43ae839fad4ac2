package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/history"
	"github.com/abhisek/quizly/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the log of completed quizzes",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		topic, _ := cmd.Flags().GetString("topic")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		records, err := s.Attempts().ListAttempts(cmd.Context(), store.QueryOpts{Limit: limit, TopicID: topic})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No attempts found.")
			return nil
		}

		fmt.Fprintf(out, "%-19s  %-14s  %5s  %5s  %s\n", "Finished", "Topic", "Level", "Score", "Passed")
		fmt.Fprintln(out, strings.Repeat("─", 58))
		for _, r := range records {
			passed := "✓"
			if !r.Passed {
				passed = "✗"
			}
			fmt.Fprintf(out, "%-19s  %-14s  %5d  %5s  %s\n",
				r.FinishedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(r.TopicID, 14),
				r.Level,
				fmt.Sprintf("%d/%d", r.Score, r.Total),
				passed,
			)
		}
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export every attempt and answer to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		records, err := s.Attempts().ListAttempts(cmd.Context(), store.QueryOpts{TopicID: topic})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[0], err)
		}
		if err := history.WriteXLSX(f, records); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", args[0], err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d attempts to %s\n", len(records), args[0])
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
	historyListCmd.Flags().StringP("topic", "t", "", "Only show attempts for this topic")
	historyExportCmd.Flags().StringP("topic", "t", "", "Only export attempts for this topic")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
}
