package quiz

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizly/internal/bank"
	"github.com/abhisek/quizly/internal/progress"
	qz "github.com/abhisek/quizly/internal/quiz"
	res "github.com/abhisek/quizly/internal/results"
	"github.com/abhisek/quizly/internal/router"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screens/placeholder"
	resultsscreen "github.com/abhisek/quizly/internal/screens/results"
	"github.com/abhisek/quizly/internal/selection"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
)

// QuizScreen runs one attempt at the selected topic and level.
type QuizScreen struct {
	deps screen.Deps

	topic  bank.Topic
	engine *qz.Engine
	choice components.MultiChoice
	hint   string

	loading   bool
	finishing bool
	err       error
}

var _ screen.Screen = (*QuizScreen)(nil)

// New creates a QuizScreen. The topic and level are read from the persisted
// selection when the screen starts.
func New(deps screen.Deps) *QuizScreen {
	return &QuizScreen{deps: deps, loading: true}
}

func (s *QuizScreen) Init() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		ctx := context.Background()
		topicID, err := deps.Selection.RequireTopic(ctx)
		if err != nil {
			return questionsLoadedMsg{Err: err}
		}
		level, err := deps.Selection.RequireLevel(ctx)
		if err != nil {
			return questionsLoadedMsg{Err: err}
		}
		topic, err := deps.Bank.Topic(topicID)
		if err != nil {
			return questionsLoadedMsg{Err: err}
		}
		questions, err := deps.Bank.Questions(topicID, level)
		return questionsLoadedMsg{Topic: topic, Level: level, Questions: questions, Err: err}
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		return s.handleLoaded(msg)

	case timerTickMsg:
		return s.handleTick(msg)

	case quizFinishedMsg:
		return s.handleFinished(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *QuizScreen) handleLoaded(msg questionsLoadedMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	log := s.deps.Log()

	switch {
	case errors.Is(msg.Err, selection.ErrPreconditionMissing), errors.Is(msg.Err, bank.ErrNotFound):
		log.Debug("quiz unavailable, returning home", "error", msg.Err)
		return s, func() tea.Msg { return router.PopToRootMsg{} }

	case errors.Is(msg.Err, bank.ErrEmpty):
		ph := placeholder.New(msg.Topic.Title, "This level has no questions yet.")
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: ph} }

	case msg.Err != nil:
		log.Error("load questions", "error", msg.Err)
		s.err = msg.Err
		return s, nil
	}

	var opts []qz.Option
	if s.deps.TimerSeconds > 0 {
		opts = append(opts, qz.WithTimerSeconds(s.deps.TimerSeconds))
	}
	engine, err := qz.NewEngine(msg.Topic.ID, msg.Level, msg.Questions, opts...)
	if err != nil {
		s.err = err
		return s, nil
	}
	s.topic = msg.Topic
	s.engine = engine
	log.Info("quiz started", "attempt", engine.ID(), "topic", engine.TopicID(), "level", engine.Level(), "questions", engine.QuestionCount())
	return s, s.startQuestion()
}

// startQuestion presents the current question and starts its countdown.
func (s *QuizScreen) startQuestion() tea.Cmd {
	q, ok := s.engine.Current()
	if !ok {
		return nil
	}
	s.choice = components.NewMultiChoice(q.Options, q.CorrectIndex())
	s.hint = ""
	return tickCmd(s.engine.Start())
}

func (s *QuizScreen) handleTick(msg timerTickMsg) (screen.Screen, tea.Cmd) {
	if s.engine == nil {
		return s, nil
	}
	tick := s.engine.Tick(msg.Token)
	switch {
	case tick.Ignored:
		return s, nil
	case tick.TimedOut:
		s.choice.Lock(-1)
		return s, nil
	}
	return s, tickCmd(msg.Token)
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.engine == nil || s.finishing {
		return s, nil
	}

	switch s.engine.Phase() {
	case qz.PhasePresenting:
		if key := msg.String(); key == "h" || key == "H" || key == "?" {
			if hint, ok := s.engine.UseHint(); ok {
				s.hint = hint
			}
			return s, nil
		}
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		if opt, ok := s.choice.Chosen(); ok {
			s.engine.Select(opt)
		}
		return s, cmd

	case qz.PhaseAnswered:
		switch msg.String() {
		case "enter", "space", "n", "right":
			return s, s.next()
		}
	}
	return s, nil
}

// next advances past an answered question, finishing after the last one.
func (s *QuizScreen) next() tea.Cmd {
	if s.engine.Advance() != qz.PhaseComplete {
		return s.startQuestion()
	}
	return s.finish()
}

// finish saves the attempt, evaluates it and appends it to the history.
func (s *QuizScreen) finish() tea.Cmd {
	attempt, err := s.engine.Result()
	if err != nil {
		s.err = err
		return nil
	}
	s.finishing = true
	deps := s.deps
	return func() tea.Msg {
		ctx := context.Background()
		if err := deps.Selection.SaveResults(ctx, attempt); err != nil {
			deps.Log().Warn("results not saved", "attempt", attempt.ID, "error", err)
		}
		summary, err := deps.Results.Evaluate(ctx, attempt)
		if err == nil || errors.Is(err, progress.ErrNotSaved) {
			if logErr := res.LogAttempt(ctx, deps.Attempts, summary); logErr != nil {
				deps.Log().Warn("attempt not logged", "attempt", attempt.ID, "error", logErr)
			}
		}
		return quizFinishedMsg{Summary: summary, Err: err}
	}
}

func (s *QuizScreen) handleFinished(msg quizFinishedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil && !errors.Is(msg.Err, progress.ErrNotSaved) {
		s.finishing = false
		s.err = msg.Err
		return s, nil
	}
	next := resultsscreen.New(s.deps, msg.Summary, s.topic.Title)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// Engine exposes the running engine, nil until the questions load.
func (s *QuizScreen) Engine() *qz.Engine { return s.engine }

func (s *QuizScreen) Title() string {
	return "Quiz"
}

// HeaderContext shows the topic and level being played.
func (s *QuizScreen) HeaderContext() string {
	if s.engine == nil {
		return ""
	}
	return headerContext(s.topic.Title, s.engine.Level())
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.engine != nil && s.engine.Phase() == qz.PhaseAnswered {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Quit quiz"},
		}
	}
	return []layout.KeyHint{
		{Key: "A-D/1-4", Description: "Answer"},
		{Key: "↑↓", Description: "Move"},
		{Key: "H", Description: "Hint"},
		{Key: "Esc", Description: "Quit quiz"},
	}
}
