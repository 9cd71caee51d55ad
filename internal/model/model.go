package model

import (
	"fmt"
	"strconv"
	"time"
)

// Answer is one of the four choice letters or an explicit skip.
type Answer string

const (
	AnswerA    Answer = "A"
	AnswerB    Answer = "B"
	AnswerC    Answer = "C"
	AnswerD    Answer = "D"
	AnswerSkip Answer = "SKIP"
)

// IsChoice reports whether the answer is one of the four option letters.
func (a Answer) IsChoice() bool {
	switch a {
	case AnswerA, AnswerB, AnswerC, AnswerD:
		return true
	}
	return false
}

// Difficulty represents question difficulty level.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyMedium   Difficulty = "medium"
	DifficultyAdvanced Difficulty = "advanced"
)

// Attempt is one answered or skipped question. Attempts are inputs to the
// analysis pipeline and are never mutated by it.
type Attempt struct {
	QuestionNumber int    `json:"question_number"`
	QuestionText   string `json:"question"`
	CorrectAnswer  Answer `json:"correct_answer"`
	UserAnswer     Answer `json:"user_answer"`
	Correct        bool   `json:"is_correct"`
	Skipped        bool   `json:"is_skipped"`
	// TimeTaken is the response time in seconds. Values outside [0, 300]
	// are kept here but excluded from timing aggregates.
	TimeTaken float64 `json:"time_taken"`
	// Reference is optional source-document text used for topic
	// classification alongside the question text.
	Reference string `json:"pdf_reference,omitempty"`
	// Malformed marks a record whose time value could not be converted.
	// Malformed attempts still count toward totals and the answer
	// distribution but are excluded from per-question marks.
	Malformed bool `json:"malformed,omitempty"`
}

// Incorrect reports whether the attempt was answered and wrong.
// Exactly one of Correct, Skipped, Incorrect holds for any attempt.
func (a Attempt) Incorrect() bool {
	return !a.Correct && !a.Skipped
}

// AttemptRecord is the flat inbound record produced by external collaborators
// (the test UI or an earlier export). Optional fields default rather than
// failing the whole batch: a missing user answer means the question was
// skipped, a missing correct answer defaults to A, a missing time to zero.
// The correctness flags are pointers so that absent flags can be derived from
// the answers instead of silently reading as false.
type AttemptRecord struct {
	QuestionNumber int      `json:"question_number"`
	Question       string   `json:"question"`
	CorrectAnswer  string   `json:"correct_answer"`
	UserAnswer     string   `json:"user_answer"`
	IsCorrect      *bool    `json:"is_correct,omitempty"`
	IsSkipped      *bool    `json:"is_skipped,omitempty"`
	TimeTaken      any      `json:"time_taken"`
	PDFReference   string   `json:"pdf_reference,omitempty"`
	Explanation    string   `json:"explanation,omitempty"`
	Options        []string `json:"options,omitempty"`
}

// Normalize converts an inbound record into a typed Attempt, applying the
// documented defaults. index is the zero-based position in the batch, used
// when the record carries no question number. A non-numeric time value is
// reported as an error; the returned attempt is still usable but flagged
// Malformed.
func (r AttemptRecord) Normalize(index int) (Attempt, error) {
	a := Attempt{
		QuestionNumber: r.QuestionNumber,
		QuestionText:   r.Question,
		Reference:      r.PDFReference,
	}
	if a.QuestionNumber <= 0 {
		a.QuestionNumber = index + 1
	}

	correct := Answer(r.CorrectAnswer)
	if !correct.IsChoice() {
		correct = AnswerA
	}
	a.CorrectAnswer = correct

	user := Answer(r.UserAnswer)
	if !user.IsChoice() {
		user = AnswerSkip
	}
	a.UserAnswer = user

	if r.IsSkipped != nil {
		a.Skipped = *r.IsSkipped
	} else {
		a.Skipped = user == AnswerSkip
	}
	if r.IsCorrect != nil {
		a.Correct = *r.IsCorrect && !a.Skipped
	} else {
		a.Correct = !a.Skipped && user == correct
	}

	t, err := toSeconds(r.TimeTaken)
	if err != nil {
		a.Malformed = true
		return a, fmt.Errorf("attempt %d: %w", a.QuestionNumber, err)
	}
	a.TimeTaken = t
	return a, nil
}

func toSeconds(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("non-numeric time value %q", t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported time value type %T", v)
	}
}

// TestSession is one stored practice-test submission.
type TestSession struct {
	ID            int64      `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	Source        string     `json:"source"`
	Difficulty    Difficulty `json:"difficulty"`
	QuestionCount int        `json:"question_count"`
	LetterGrade   string     `json:"letter_grade"`
	ScorePercent  float64    `json:"score_percent"`
}
