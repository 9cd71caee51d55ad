package analysis

import (
	"log/slog"

	"github.com/ajaysvasan/neurolearn/internal/model"
)

// GATE-style marking scheme. These values are fixed policy, not configuration.
const (
	CorrectMarks     = 1.0
	IncorrectPenalty = -1.0 / 3.0
	SkipMarks        = 0.0
	// TimeBonusThreshold is the response time in seconds under which a
	// correct answer earns TimeBonus on top of CorrectMarks.
	TimeBonusThreshold = 30.0
	TimeBonus          = 0.1
)

// MarkingType classifies the outcome of a single attempt.
type MarkingType string

const (
	MarkedCorrect   MarkingType = "correct"
	MarkedIncorrect MarkingType = "incorrect"
	MarkedSkipped   MarkingType = "skipped"
)

// QuestionMark is the per-attempt marking outcome.
type QuestionMark struct {
	QuestionNumber int         `json:"question_number"`
	MarksEarned    float64     `json:"marks_earned"`
	MarkingType    MarkingType `json:"marking_type"`
	TimeTaken      float64     `json:"time_taken"`
}

// MarkingSummary aggregates marks over a whole test.
// PositiveMarks includes the speed bonus; the topic-level marks in TopicStats
// deliberately do not, so the two figures may diverge.
type MarkingSummary struct {
	TotalMarksEarned     float64 `json:"total_marks_earned"`
	MaximumPossibleMarks float64 `json:"maximum_possible_marks"`
	// PercentageScore is clamped to a floor of 0 even when the raw total
	// is negative; TotalMarksEarned keeps the unclamped value.
	PercentageScore float64 `json:"percentage_score"`
	PositiveMarks   float64 `json:"positive_marks"`
	NegativeMarks   float64 `json:"negative_marks"`
	NetScoreImpact  float64 `json:"net_score_impact"`
}

// AnswerDistribution counts attempt outcomes.
type AnswerDistribution struct {
	CorrectAnswers   int `json:"correct_answers"`
	IncorrectAnswers int `json:"incorrect_answers"`
	SkippedAnswers   int `json:"skipped_answers"`
	TotalQuestions   int `json:"total_questions"`
}

// EfficiencyMetrics are the derived marking ratios, all percentages.
type EfficiencyMetrics struct {
	AccuracyRate        float64 `json:"accuracy_rate"`
	AttemptRate         float64 `json:"attempt_rate"`
	CorrectAttemptRatio float64 `json:"correct_attempt_ratio"`
	NegativeImpact      float64 `json:"negative_impact"`
}

// MarkingResult is the full output of the marking engine.
type MarkingResult struct {
	Summary       MarkingSummary
	Distribution  AnswerDistribution
	Efficiency    EfficiencyMetrics
	QuestionMarks []QuestionMark
}

// Score applies the negative-marking scheme to a set of attempts.
// Malformed attempts are excluded from the per-question marks but still count
// toward the maximum possible marks and the answer distribution; processing
// never aborts for a single bad record.
func Score(attempts []model.Attempt) (*MarkingResult, error) {
	if len(attempts) == 0 {
		return nil, ErrNoAttempts
	}

	var totalMarks, positiveMarks, negativeMarks float64
	marks := make([]QuestionMark, 0, len(attempts))

	for _, a := range attempts {
		if a.Malformed {
			slog.Warn("skipping malformed attempt", "question", a.QuestionNumber)
			continue
		}

		var earned float64
		var kind MarkingType
		switch {
		case a.Skipped:
			earned = SkipMarks
			kind = MarkedSkipped
		case a.Correct:
			earned = CorrectMarks
			if a.TimeTaken < TimeBonusThreshold {
				earned += TimeBonus
			}
			positiveMarks += earned
			kind = MarkedCorrect
		default:
			earned = IncorrectPenalty
			negativeMarks += -earned
			kind = MarkedIncorrect
		}
		totalMarks += earned

		marks = append(marks, QuestionMark{
			QuestionNumber: a.QuestionNumber,
			MarksEarned:    round3(earned),
			MarkingType:    kind,
			TimeTaken:      a.TimeTaken,
		})
	}

	maxMarks := float64(len(attempts)) * CorrectMarks
	percentage := totalMarks / maxMarks * 100

	dist := AnswerDistribution{TotalQuestions: len(attempts)}
	for _, a := range attempts {
		switch {
		case a.Correct:
			dist.CorrectAnswers++
		case a.Skipped:
			dist.SkippedAnswers++
		default:
			dist.IncorrectAnswers++
		}
	}

	attempted := dist.TotalQuestions - dist.SkippedAnswers
	eff := EfficiencyMetrics{
		AccuracyRate:        round2(float64(dist.CorrectAnswers) / float64(dist.TotalQuestions) * 100),
		AttemptRate:         round2(float64(attempted) / float64(dist.TotalQuestions) * 100),
		CorrectAttemptRatio: round2(float64(dist.CorrectAnswers) / float64(max(1, attempted)) * 100),
		NegativeImpact:      round2(negativeMarks / maxMarks * 100),
	}

	return &MarkingResult{
		Summary: MarkingSummary{
			TotalMarksEarned:     round3(totalMarks),
			MaximumPossibleMarks: maxMarks,
			PercentageScore:      round2(clampFloor(percentage, 0)),
			PositiveMarks:        round3(positiveMarks),
			NegativeMarks:        round3(negativeMarks),
			NetScoreImpact:       round3(totalMarks),
		},
		Distribution:  dist,
		Efficiency:    eff,
		QuestionMarks: marks,
	}, nil
}
