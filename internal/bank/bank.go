package bank

import (
	"fmt"
	"sort"
)

// Bank is an immutable, validated set of topics and their questions.
// It is safe for concurrent use.
type Bank struct {
	topics  []Topic
	content map[string]TopicContent
}

// New validates topics and content and builds a Bank. Levels are ordered by
// number; topics that only appear in content are listed after the declared
// ones, sorted by ID.
func New(topics []Topic, content map[string]TopicContent) (*Bank, error) {
	var problems []string
	problems = append(problems, validateTopics(topics)...)
	problems = append(problems, validateContent(content)...)
	if len(problems) > 0 {
		return nil, &InvalidError{Source: "question bank", Problems: problems}
	}

	b := &Bank{
		topics:  make([]Topic, 0, len(topics)),
		content: make(map[string]TopicContent, len(content)),
	}

	declared := make(map[string]bool, len(topics))
	for _, t := range topics {
		b.topics = append(b.topics, t)
		declared[t.ID] = true
	}

	var extra []string
	for id, tc := range content {
		levels := make([]Level, len(tc.Levels))
		copy(levels, tc.Levels)
		sort.Slice(levels, func(i, j int) bool { return levels[i].Number < levels[j].Number })
		b.content[id] = TopicContent{Title: tc.Title, Levels: levels}
		if !declared[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		b.topics = append(b.topics, Topic{ID: id, Title: content[id].Title})
	}

	return b, nil
}

// Topics returns all topics in display order.
func (b *Bank) Topics() []Topic {
	out := make([]Topic, len(b.topics))
	copy(out, b.topics)
	return out
}

// Topic returns the topic with the given ID.
func (b *Bank) Topic(id string) (Topic, error) {
	for _, t := range b.topics {
		if t.ID == id {
			return t, nil
		}
	}
	return Topic{}, fmt.Errorf("topic %q: %w", id, ErrNotFound)
}

// Levels lists the levels defined for a topic. A topic without question
// data is reported as not found.
func (b *Bank) Levels(topicID string) ([]LevelInfo, error) {
	tc, ok := b.content[topicID]
	if !ok {
		return nil, fmt.Errorf("levels for topic %q: %w", topicID, ErrNotFound)
	}
	out := make([]LevelInfo, len(tc.Levels))
	for i, lvl := range tc.Levels {
		out[i] = LevelInfo{
			Number:        lvl.Number,
			Title:         lvl.Title,
			QuestionCount: len(lvl.Questions),
		}
	}
	return out, nil
}

// Level returns a copy of one level including its questions.
func (b *Bank) Level(topicID string, number int) (Level, error) {
	tc, ok := b.content[topicID]
	if !ok {
		return Level{}, fmt.Errorf("topic %q: %w", topicID, ErrNotFound)
	}
	for _, lvl := range tc.Levels {
		if lvl.Number != number {
			continue
		}
		out := Level{Number: lvl.Number, Title: lvl.Title, Questions: make([]Question, len(lvl.Questions))}
		for i, q := range lvl.Questions {
			out.Questions[i] = q.clone()
		}
		return out, nil
	}
	return Level{}, fmt.Errorf("topic %q level %d: %w", topicID, number, ErrNotFound)
}

// Questions returns the ordered questions for a level. The result is a
// fresh copy on every call.
func (b *Bank) Questions(topicID string, level int) ([]Question, error) {
	lvl, err := b.Level(topicID, level)
	if err != nil {
		return nil, err
	}
	if len(lvl.Questions) == 0 {
		return nil, fmt.Errorf("topic %q level %d: %w", topicID, level, ErrEmpty)
	}
	return lvl.Questions, nil
}
