package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/bank"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List quiz topics and your unlocked level in each",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-14s  %-20s  %6s  %8s\n", "ID", "Title", "Levels", "Unlocked")
		fmt.Fprintln(out, strings.Repeat("─", 54))

		for _, t := range e.Bank.Topics() {
			levels, err := e.Bank.Levels(t.ID)
			if err != nil || len(levels) == 0 {
				fmt.Fprintf(out, "%-14s  %-20s  %6s  %8s\n", t.ID, truncate(t.Title, 20), "-", "soon")
				continue
			}
			fmt.Fprintf(out, "%-14s  %-20s  %6d  %8d\n",
				t.ID, truncate(t.Title, 20), len(levels), e.Progress.UnlockedLevel(ctx, t.ID))
		}
		return nil
	},
}

var levelsCmd = &cobra.Command{
	Use:   "levels <topic>",
	Short: "List the levels of a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		topic, err := e.Bank.Topic(args[0])
		if err != nil {
			return err
		}
		levels, err := e.Bank.Levels(topic.ID)
		if err != nil {
			return err
		}
		unlocked := e.Progress.UnlockedLevel(ctx, topic.ID)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (unlocked: level %d of %d)\n\n", topic.Title, unlocked, bank.TotalLevels)
		fmt.Fprintf(out, "%5s  %-32s  %9s  %s\n", "Level", "Title", "Questions", "Status")
		fmt.Fprintln(out, strings.Repeat("─", 62))
		for _, lv := range levels {
			fmt.Fprintf(out, "%5d  %-32s  %9d  %s\n",
				lv.Number, truncate(lv.Title, 32), lv.QuestionCount, levelStatus(lv, unlocked))
		}
		return nil
	},
}

func levelStatus(lv bank.LevelInfo, unlocked int) string {
	switch {
	case lv.Number > unlocked:
		return "locked"
	case lv.QuestionCount == 0:
		return "coming soon"
	default:
		return "open"
	}
}
