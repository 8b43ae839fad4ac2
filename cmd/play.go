package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/feedback"
	"github.com/abhisek/quizly/internal/llm"
	"github.com/abhisek/quizly/internal/progress"
	"github.com/abhisek/quizly/internal/quiz"
	"github.com/abhisek/quizly/internal/results"
	"github.com/abhisek/quizly/internal/ui/components"
)

// errInputClosed ends a line-mode quiz when stdin reaches EOF.
var errInputClosed = errors.New("input closed")

var (
	correctColor = color.New(color.FgGreen, color.Bold)
	wrongColor   = color.New(color.FgRed, color.Bold)
	timerColor   = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one level in plain line mode, without the full-screen UI",
	Long: `Play one level of a topic on plain stdin/stdout. Answer with A-D or 1-4,
or h for a hint. The countdown keeps running while you type; an answer that
arrives after it runs out does not count.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringP("topic", "t", "", "Topic ID (required)")
	playCmd.Flags().IntP("level", "l", 1, "Level number")
	playCmd.Flags().Bool("feedback", false, "Ask the AI tutor about missed questions afterwards")
	_ = playCmd.MarkFlagRequired("topic")
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	topicID, _ := cmd.Flags().GetString("topic")
	level, _ := cmd.Flags().GetInt("level")
	timer, _ := cmd.Flags().GetInt("timer")
	wantFeedback, _ := cmd.Flags().GetBool("feedback")

	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	topic, err := e.Bank.Topic(topicID)
	if err != nil {
		return err
	}
	if !progress.Playable(ctx, e.Progress, topicID, level) {
		return fmt.Errorf("level %d of %s is locked; unlocked up to level %d",
			level, topic.Title, e.Progress.UnlockedLevel(ctx, topicID))
	}
	questions, err := e.Bank.Questions(topicID, level)
	if err != nil {
		return err
	}

	var opts []quiz.Option
	if timer > 0 {
		opts = append(opts, quiz.WithTimerSeconds(timer))
	}
	engine, err := quiz.NewEngine(topicID, level, questions, opts...)
	if err != nil {
		return err
	}
	if err := e.Selection.SetTopic(ctx, topicID); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	if err := e.Selection.SetLevel(ctx, level); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s · Level %d · %d questions, %ds each\n\n",
		topic.Title, level, engine.QuestionCount(), engine.TimerSeconds())

	countdown := quiz.NewCountdown(time.Second)
	defer countdown.Stop()

	if err := playLines(ctx, engine, readLines(cmd.InOrStdin()), countdown, out); err != nil {
		return err
	}

	attempt, err := engine.Result()
	if err != nil {
		return err
	}
	summary, err := evaluate(ctx, e, attempt)
	if err != nil {
		return err
	}
	printSummary(out, summary)

	if wantFeedback && !summary.Perfect() {
		printFeedback(ctx, out, e, summary)
	}
	return nil
}

// evaluate saves the attempt under the selection keys, scores it and
// appends it to the history. A progress write failure is left to the
// summary warning.
func evaluate(ctx context.Context, e *env, attempt quiz.Attempt) (results.Summary, error) {
	if err := e.Selection.SaveResults(ctx, attempt); err != nil {
		e.Logger.Warn("results not saved", "attempt", attempt.ID, "error", err)
	}
	summary, err := e.Results.Evaluate(ctx, attempt)
	if err != nil && !errors.Is(err, progress.ErrNotSaved) {
		return results.Summary{}, err
	}
	if err := results.LogAttempt(ctx, e.Attempts, summary); err != nil {
		e.Logger.Warn("attempt not logged", "attempt", attempt.ID, "error", err)
	}
	return summary, nil
}

// readLines feeds trimmed input lines to a channel, closed at EOF.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
	}()
	return lines
}

// playLines runs engine to completion, taking answers from lines and
// seconds from countdown.
func playLines(ctx context.Context, engine *quiz.Engine, lines <-chan string, countdown *quiz.Countdown, out io.Writer) error {
	for engine.Phase() != quiz.PhaseComplete {
		q, _ := engine.Current()
		fmt.Fprintf(out, "Question %d/%d  %s\n", engine.Index()+1, engine.QuestionCount(), q.Prompt)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %c) %s\n", 'A'+i, opt)
		}
		fmt.Fprint(out, "Answer (A-D, h for hint): ")

		countdown.Restart(ctx, engine.Start())
		if err := askQuestion(ctx, engine, lines, countdown, out); err != nil {
			return err
		}
		countdown.Stop()

		printVerdict(out, engine)
		engine.Advance()
	}
	return nil
}

// askQuestion blocks until the open question is locked by an answer or by
// the countdown.
func askQuestion(ctx context.Context, engine *quiz.Engine, lines <-chan string, countdown *quiz.Countdown, out io.Writer) error {
	for engine.Phase() == quiz.PhasePresenting {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case token := <-countdown.C:
			res := engine.Tick(token)
			if !res.Ignored && !res.TimedOut && res.Remaining <= 5 {
				timerColor.Fprintf(out, "[%ds] ", res.Remaining)
			}

		case line, ok := <-lines:
			if !ok {
				return errInputClosed
			}
			// A second that elapsed before the answer was read still counts.
			if drainTicks(engine, countdown) {
				return nil
			}
			handleLine(engine, line, out)
		}
	}
	return nil
}

// drainTicks applies the ticks already delivered and reports whether they
// ended the question.
func drainTicks(engine *quiz.Engine, countdown *quiz.Countdown) bool {
	for {
		select {
		case token := <-countdown.C:
			if engine.Tick(token).TimedOut {
				return true
			}
		default:
			return false
		}
	}
}

func handleLine(engine *quiz.Engine, line string, out io.Writer) {
	if strings.EqualFold(line, "h") || line == "?" {
		if hint, ok := engine.UseHint(); ok {
			dimColor.Fprintf(out, "Hint: %s\n", hint)
		} else {
			dimColor.Fprintln(out, "Hint already shown.")
		}
		fmt.Fprint(out, "Answer: ")
		return
	}

	q, _ := engine.Current()
	i, ok := components.OptionIndex(line)
	if !ok || i >= len(q.Options) {
		fmt.Fprintf(out, "Choose A-%c or 1-%d: ", 'A'+len(q.Options)-1, len(q.Options))
		return
	}
	engine.Select(q.Options[i])
}

func printVerdict(out io.Writer, engine *quiz.Engine) {
	rec, ok := engine.LastRecord()
	if !ok {
		return
	}
	switch {
	case rec.IsCorrect:
		correctColor.Fprintln(out, "✓ Correct!")
	case rec.TimedOut:
		fmt.Fprintln(out)
		wrongColor.Fprint(out, "⏱ Time's up!")
		fmt.Fprintf(out, " Correct answer: %s\n", rec.Correct)
	default:
		wrongColor.Fprint(out, "✗ Incorrect.")
		fmt.Fprintf(out, " Correct answer: %s\n", rec.Correct)
	}
	fmt.Fprintln(out)
}

func printSummary(out io.Writer, s results.Summary) {
	fmt.Fprintf(out, "── Final Score: %s ──\n", s.ScoreText)
	switch {
	case s.Passed && s.Unlocked > 0:
		correctColor.Fprintf(out, "Level passed! Level %d unlocked.\n", s.Unlocked)
	case s.Passed:
		correctColor.Fprintln(out, "Level passed!")
	default:
		wrongColor.Fprintf(out, "Not quite. Score %d%% or more to pass.\n", int(results.PassThreshold*100))
	}
	if s.Warning != "" {
		timerColor.Fprintln(out, "! "+s.Warning)
	}

	if len(s.Review) == 0 {
		return
	}
	fmt.Fprintln(out, "\nReview:")
	for _, r := range s.Review {
		fmt.Fprintf(out, "  Q%d. %s\n", r.Index+1, r.Question)
		fmt.Fprintf(out, "      Your answer: %s  Correct answer: %s\n", r.Selected, r.Correct)
	}
}

func printFeedback(ctx context.Context, out io.Writer, e *env, s results.Summary) {
	provider, cfg, err := llm.NewProviderFromEnv(ctx, e.EventRepo(), e.Logger)
	if err != nil || provider == nil {
		fmt.Fprintln(out, "\n"+feedback.UnavailableText)
		return
	}
	svc := feedback.NewService(provider, e.Logger, feedback.WithTimeout(cfg.Timeout), feedback.WithMaxTokens(cfg.MaxTokens))

	fmt.Fprintln(out, "\n"+feedback.ThinkingText)
	text, err := svc.Explain(ctx, feedback.MistakesFrom(s.Review))
	if err != nil {
		e.Logger.Warn("feedback failed", "error", err)
		fmt.Fprintln(out, feedback.ErrorText)
		return
	}
	rendered, err := feedback.RenderTerminal(text, 80)
	if err != nil {
		rendered = text
	}
	fmt.Fprintln(out, rendered)
}
