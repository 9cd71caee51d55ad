package analysis

import (
	"log/slog"

	"github.com/ajaysvasan/neurolearn/internal/model"
)

// StrategyType classifies how the student balanced attempting vs skipping.
type StrategyType string

const (
	StrategyMoreConservative StrategyType = "more_conservative"
	StrategyMoreAggressive   StrategyType = "more_aggressive"
	StrategyBalanced         StrategyType = "balanced"
)

// Confidence threshold recommendations from the quick/slow accuracy split.
const (
	ConfidenceTrustQuick = "trust_quick_instincts"
	ConfidenceTakeTime   = "take_time_when_needed"
	ConfidenceMedium     = "medium_confidence"
	quickAnswerThreshold = 40.0
	slowAnswerThreshold  = 50.0
)

// CurrentStrategy describes the marks the actual answering strategy earned,
// replayed without the speed bonus so alternatives compare like for like.
type CurrentStrategy struct {
	Marks        float64      `json:"marks"`
	StrategyType StrategyType `json:"strategy_type"`
}

// AlternativeStrategy is a hypothetical replay of the test.
type AlternativeStrategy struct {
	Marks       float64 `json:"marks"`
	Difference  float64 `json:"difference"`
	Description string  `json:"description"`
}

// AlternativeStrategies holds the two modeled extremes.
type AlternativeStrategies struct {
	Conservative AlternativeStrategy `json:"conservative"`
	Aggressive   AlternativeStrategy `json:"aggressive"`
}

// StrategyReport compares the actual outcome against alternative strategies.
type StrategyReport struct {
	Current             CurrentStrategy       `json:"current_performance"`
	Alternatives        AlternativeStrategies `json:"alternative_strategies"`
	Recommendations     []string              `json:"recommendations"`
	ConfidenceThreshold string                `json:"confidence_threshold"`
	Error               string                `json:"error,omitempty"`
}

// EvaluateStrategy analyzes the effectiveness of the negative-marking strategy.
func EvaluateStrategy(attempts []model.Attempt) (*StrategyReport, error) {
	if len(attempts) == 0 {
		return nil, ErrNoAttempts
	}

	total := len(attempts)
	var correct, incorrect, skipped int
	for _, a := range attempts {
		switch {
		case a.Correct:
			correct++
		case a.Skipped:
			skipped++
		default:
			incorrect++
		}
	}

	currentMarks := float64(correct)*CorrectMarks + float64(incorrect)*IncorrectPenalty

	// Conservative: every wrong answer is skipped instead.
	conservativeMarks := float64(correct) * CorrectMarks

	// Aggressive: force-attempt every skip with a 1-in-4 guess model.
	aggressiveMarks := currentMarks
	if skipped > 0 {
		expectedCorrect := float64(skipped) * 0.25
		expectedIncorrect := float64(skipped) * 0.75
		aggressiveMarks += expectedCorrect*CorrectMarks + expectedIncorrect*IncorrectPenalty
	}

	var strategy StrategyType
	var advice string
	switch {
	case float64(incorrect) > float64(total)*0.2 && float64(skipped) < float64(total)*0.2:
		strategy = StrategyMoreConservative
		advice = "Consider skipping questions you're less confident about"
	case float64(skipped) > float64(total)*0.4:
		strategy = StrategyMoreAggressive
		advice = "Try to attempt more questions with educated guessing"
	default:
		strategy = StrategyBalanced
		advice = "Good balance between attempting and skipping"
	}

	return &StrategyReport{
		Current: CurrentStrategy{
			Marks:        round3(currentMarks),
			StrategyType: strategy,
		},
		Alternatives: AlternativeStrategies{
			Conservative: AlternativeStrategy{
				Marks:       round3(conservativeMarks),
				Difference:  round3(conservativeMarks - currentMarks),
				Description: "Skip all uncertain questions",
			},
			Aggressive: AlternativeStrategy{
				Marks:       round3(aggressiveMarks),
				Difference:  round3(aggressiveMarks - currentMarks),
				Description: "Attempt all questions with educated guessing",
			},
		},
		Recommendations:     []string{advice},
		ConfidenceThreshold: confidenceThreshold(attempts),
	}, nil
}

// confidenceThreshold partitions attempts into quick (<40s) and slow (>50s)
// sets and compares their accuracy. Attempts strictly between the thresholds
// count in neither set; an empty set defaults its accuracy to zero.
func confidenceThreshold(attempts []model.Attempt) string {
	var quick, quickCorrect, slow, slowCorrect int
	for _, a := range attempts {
		if a.TimeTaken < quickAnswerThreshold {
			quick++
			if a.Correct {
				quickCorrect++
			}
		}
		if a.TimeTaken > slowAnswerThreshold {
			slow++
			if a.Correct {
				slowCorrect++
			}
		}
	}

	quickAccuracy := float64(quickCorrect) / float64(max(1, quick))
	slowAccuracy := float64(slowCorrect) / float64(max(1, slow))

	switch {
	case quickAccuracy > 0.8 && slowAccuracy < 0.4:
		return ConfidenceTrustQuick
	case slowAccuracy > 0.7:
		return ConfidenceTakeTime
	default:
		return ConfidenceMedium
	}
}

// safeStrategy degrades strategy failures to an error section instead of
// losing the rest of the report.
func safeStrategy(attempts []model.Attempt) (rep *StrategyReport) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("strategy analysis failed", "panic", r)
			rep = &StrategyReport{Error: "strategy analysis failed"}
		}
	}()
	rep, err := EvaluateStrategy(attempts)
	if err != nil {
		rep = &StrategyReport{Error: err.Error()}
	}
	return rep
}
