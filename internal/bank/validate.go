package bank

import (
	"fmt"
	"sort"
)

// validateTopics checks the topic list for problems the schema can't express.
func validateTopics(topics []Topic) []string {
	var errs []string
	seen := make(map[string]bool, len(topics))
	for _, t := range topics {
		if seen[t.ID] {
			errs = append(errs, fmt.Sprintf("duplicate topic ID: %q", t.ID))
		}
		seen[t.ID] = true
	}
	return errs
}

// validateContent checks per-topic question data: level numbering and that
// every answer is exactly one of its options.
func validateContent(content map[string]TopicContent) []string {
	var errs []string

	ids := make([]string, 0, len(content))
	for id := range content {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		tc := content[id]
		if id == "" {
			errs = append(errs, "topic with empty ID")
		}
		if tc.Title == "" {
			errs = append(errs, fmt.Sprintf("topic %q has no title", id))
		}

		levels := make(map[int]bool, len(tc.Levels))
		for _, lvl := range tc.Levels {
			if lvl.Number < 1 || lvl.Number > TotalLevels {
				errs = append(errs, fmt.Sprintf("topic %q: level %d out of range 1..%d", id, lvl.Number, TotalLevels))
			}
			if levels[lvl.Number] {
				errs = append(errs, fmt.Sprintf("topic %q: duplicate level %d", id, lvl.Number))
			}
			levels[lvl.Number] = true

			for qi, q := range lvl.Questions {
				errs = append(errs, validateQuestion(id, lvl.Number, qi, q)...)
			}
		}
	}
	return errs
}

func validateQuestion(topicID string, level, idx int, q Question) []string {
	var errs []string
	where := fmt.Sprintf("topic %q level %d question %d", topicID, level, idx+1)

	if q.Prompt == "" {
		errs = append(errs, where+": empty question text")
	}
	if len(q.Options) < 2 {
		errs = append(errs, fmt.Sprintf("%s: needs at least 2 options, has %d", where, len(q.Options)))
	}

	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if seen[opt] {
			errs = append(errs, fmt.Sprintf("%s: duplicate option %q", where, opt))
		}
		seen[opt] = true
	}
	if !seen[q.Answer] {
		errs = append(errs, fmt.Sprintf("%s: answer %q is not one of the options", where, q.Answer))
	}
	return errs
}
