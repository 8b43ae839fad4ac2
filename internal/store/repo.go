package store

import (
	"context"
	"time"
)

// QueryOpts configures log queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	TopicID string    // attempts only
}

// SettingsRepo stores small string values by key.
type SettingsRepo interface {
	// Get returns the value for key and whether it was set.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// ProgressEntry is the stored unlock state for one topic.
type ProgressEntry struct {
	TopicID   string
	Unlocked  int
	UpdatedAt time.Time
}

// ProgressRepo persists the highest unlocked level per topic.
type ProgressRepo interface {
	// Unlocked returns the stored level and whether a row exists.
	Unlocked(ctx context.Context, topicID string) (int, bool, error)

	// Raise stores level if it is higher than the current value and
	// returns the value in effect afterwards. It never lowers a level.
	Raise(ctx context.Context, topicID string, level int) (int, error)

	// All returns every stored entry ordered by topic.
	All(ctx context.Context) ([]ProgressEntry, error)

	// Reset removes a topic's entry, or every entry when topicID is empty.
	Reset(ctx context.Context, topicID string) error
}

// AttemptAnswer is one answered (or timed out) question within an attempt.
type AttemptAnswer struct {
	Question  string `json:"question"`
	Selected  string `json:"selectedAnswer"`
	Correct   string `json:"correctAnswer"`
	IsCorrect bool   `json:"isCorrect"`
	TimedOut  bool   `json:"timedOut,omitempty"`
	HintUsed  bool   `json:"hintUsed,omitempty"`
}

// AttemptRecord is a completed quiz attempt as stored in the log.
type AttemptRecord struct {
	ID         int
	Sequence   int64
	AttemptID  string
	TopicID    string
	Level      int
	Score      int
	Total      int
	Passed     bool
	Answers    []AttemptAnswer
	StartedAt  time.Time
	FinishedAt time.Time
}

// AttemptRepo is the append-only log of completed attempts.
type AttemptRepo interface {
	AppendAttempt(ctx context.Context, rec AttemptRecord) error
	ListAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM calls for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM calls for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event, or nil if it doesn't exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
