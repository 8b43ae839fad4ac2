// Package feedback asks an LLM to explain the questions a player missed.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/quizly/internal/llm"
	"github.com/abhisek/quizly/internal/quiz"
)

// Messages shown by the results screen and the play command.
const (
	ThinkingText    = "The AI tutor is thinking..."
	ErrorText       = "Sorry, there was an error getting feedback from the AI. Please check your API key and try again."
	UnavailableText = "AI feedback is not set up. Set GEMINI_API_KEY (or another provider key) to enable it."
	PerfectText     = "Perfect Score! No mistakes to review."
)

var (
	// ErrNothingToReview is returned for an empty mistake list.
	ErrNothingToReview = errors.New("no mistakes to review")

	// ErrBusy is returned while another request is in flight.
	ErrBusy = errors.New("feedback request already running")

	// ErrUnavailable wraps every failure to obtain feedback, including a
	// missing provider.
	ErrUnavailable = errors.New("feedback service unavailable")
)

// Mistake is one missed question as sent to the model.
type Mistake struct {
	Question string
	Selected string
	Correct  string
}

// MistakesFrom keeps the incorrect records, in order.
func MistakesFrom(records []quiz.AnswerRecord) []Mistake {
	var out []Mistake
	for _, r := range records {
		if r.IsCorrect {
			continue
		}
		out = append(out, Mistake{Question: r.Question, Selected: r.Selected, Correct: r.Correct})
	}
	return out
}

// Service runs at most one feedback request at a time.
type Service struct {
	provider  llm.Provider
	logger    *slog.Logger
	maxTokens int
	timeout   time.Duration

	mu   sync.Mutex
	busy bool
}

// Option configures a Service.
type Option func(*Service)

// WithMaxTokens caps the response length.
func WithMaxTokens(n int) Option {
	return func(s *Service) { s.maxTokens = n }
}

// WithTimeout bounds a single Explain call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// NewService creates a Service. provider may be nil; Explain then reports
// ErrUnavailable.
func NewService(provider llm.Provider, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		provider:  provider,
		logger:    logger,
		maxTokens: 1024,
		timeout:   45 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether a provider is configured.
func (s *Service) Available() bool {
	return s != nil && s.provider != nil
}

// Busy reports whether a request is in flight.
func (s *Service) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Explain returns the model's markdown explanation of the mistakes.
func (s *Service) Explain(ctx context.Context, mistakes []Mistake) (string, error) {
	if len(mistakes) == 0 {
		return "", ErrNothingToReview
	}
	if !s.Available() {
		return "", fmt.Errorf("%w: no LLM provider configured", ErrUnavailable)
	}

	if !s.acquire() {
		return "", ErrBusy
	}
	defer s.release()

	ctx = llm.WithPurpose(ctx, llm.PurposeFeedback)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.provider.Generate(ctx, llm.UserPrompt("", BuildPrompt(mistakes), s.maxTokens))
	if err != nil {
		s.logger.Warn("feedback request failed", "mistakes", len(mistakes), "error", err)
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return text, nil
}

func (s *Service) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *Service) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// BuildPrompt renders the request sent to the model.
func BuildPrompt(mistakes []Mistake) string {
	var b strings.Builder
	b.WriteString("I'm studying and took a quiz. I got the following questions wrong.\n")
	b.WriteString("Can you please explain the concepts behind each question and why the correct answer is right?\n")
	b.WriteString("Keep the explanations concise, easy to understand for a beginner, and format the response nicely. ")
	b.WriteString("Use markdown. For each question, provide a section with a heading.\n\n")
	b.WriteString("Here are my mistakes:\n")
	for _, m := range mistakes {
		fmt.Fprintf(&b, "\n- Question: %q\n", m.Question)
		fmt.Fprintf(&b, "- My incorrect answer: %q\n", m.Selected)
		fmt.Fprintf(&b, "- Correct answer: %q\n", m.Correct)
	}
	return b.String()
}
