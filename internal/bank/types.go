package bank

// TotalLevels is the number of levels every topic is designed around.
const TotalLevels = 20

// Topic is a subject area the user can pick from the topic list.
type Topic struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// Question is a single multiple-choice prompt. Answer is compared with the
// selected option by exact string equality.
type Question struct {
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
	Hint    string   `json:"hint,omitempty"`
}

// Level is an ordered group of questions within a topic.
type Level struct {
	Number    int        `json:"level"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// LevelInfo summarizes a level for listing without handing out its questions.
type LevelInfo struct {
	Number        int
	Title         string
	QuestionCount int
}

// TopicContent is the question data for one topic as it appears in the
// questions source.
type TopicContent struct {
	Title  string  `json:"title"`
	Levels []Level `json:"levels"`
}

type topicsDocument struct {
	Topics []Topic `json:"topics"`
}

// CorrectIndex returns the position of the answer within the options,
// or -1 when the answer is not one of them.
func (q Question) CorrectIndex() int {
	for i, opt := range q.Options {
		if opt == q.Answer {
			return i
		}
	}
	return -1
}

// clone returns a deep copy so callers can't mutate the bank.
func (q Question) clone() Question {
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	q.Options = opts
	return q
}
