package quiz

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizly/internal/bank"
	qz "github.com/abhisek/quizly/internal/quiz"
	res "github.com/abhisek/quizly/internal/results"
)

// questionsLoadedMsg carries the question set for the selected level.
type questionsLoadedMsg struct {
	Topic     bank.Topic
	Level     int
	Questions []bank.Question
	Err       error
}

// timerTickMsg is one second of the countdown for the question that was
// current when Token was issued.
type timerTickMsg struct {
	Token qz.TimerToken
}

// quizFinishedMsg carries the evaluated attempt.
type quizFinishedMsg struct {
	Summary res.Summary
	Err     error
}

// tickCmd schedules the next countdown second.
func tickCmd(token qz.TimerToken) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{Token: token}
	})
}
