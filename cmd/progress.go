package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show or reset unlocked levels",
}

var progressShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the highest unlocked level per topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := s.Progress().All(cmd.Context())
		if err != nil {
			return fmt.Errorf("read progress: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			m := make(map[string]int, len(entries))
			for _, e := range entries {
				m[e.TopicID] = e.Unlocked
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		}

		if len(entries) == 0 {
			fmt.Fprintln(out, "No progress yet. Every topic starts at level 1.")
			return nil
		}
		fmt.Fprintf(out, "%-16s  %8s  %s\n", "Topic", "Unlocked", "Updated")
		fmt.Fprintln(out, strings.Repeat("─", 48))
		for _, e := range entries {
			fmt.Fprintf(out, "%-16s  %8d  %s\n",
				e.TopicID, e.Unlocked, e.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var progressResetCmd = &cobra.Command{
	Use:   "reset [topic]",
	Short: "Lock every level above 1 again, for one topic or all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var topic string
		if len(args) == 1 {
			topic = args[0]
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Progress().Reset(cmd.Context(), topic); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
		if topic == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Progress reset for all topics.")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Progress reset for %s.\n", topic)
		}
		return nil
	},
}

func init() {
	progressShowCmd.Flags().Bool("json", false, "Print the topic to level map as JSON")

	progressCmd.AddCommand(progressShowCmd)
	progressCmd.AddCommand(progressResetCmd)
}
