package analysis

import "github.com/ajaysvasan/neurolearn/internal/model"

// Trend labels for time and accuracy drift within a test.
const (
	TrendInsufficientData = "insufficient_data"

	TrendSignificantlyFaster = "significantly_faster"
	TrendGettingFaster       = "getting_faster"
	TrendSignificantlySlower = "significantly_slower"
	TrendGettingSlower       = "getting_slower"
	TrendConsistent          = "consistent"

	TrendSignificantlyImproving = "significantly_improving"
	TrendImproving              = "improving"
	TrendSignificantlyDeclining = "significantly_declining"
	TrendDeclining              = "declining"
	TrendStable                 = "stable"
)

// TrendResult describes within-test drift between the first and last thirds
// of non-skipped attempts. Numeric fields are absent when there is not enough
// data to compare.
type TrendResult struct {
	Trend              string   `json:"trend"`
	Description        string   `json:"description"`
	ChangePercentage   *float64 `json:"change_percentage,omitempty"`
	FirstThirdAvgTime  *float64 `json:"first_third_avg_time,omitempty"`
	LastThirdAvgTime   *float64 `json:"last_third_avg_time,omitempty"`
	FirstThirdAccuracy *float64 `json:"first_third_accuracy,omitempty"`
	LastThirdAccuracy  *float64 `json:"last_third_accuracy,omitempty"`
	Confidence         string   `json:"confidence,omitempty"`
}

// PerformanceTrends bundles the trend results with the timing consistency
// score for the report.
type PerformanceTrends struct {
	TimeManagement   TrendResult `json:"time_management_trend"`
	Accuracy         TrendResult `json:"accuracy_trend"`
	ConsistencyScore float64     `json:"consistency_score"`
}

// thirds splits the answered, well-formed attempts into first and last n/3
// segments.
// When n is not a multiple of 3 the middle remainder belongs to neither
// segment.
func thirds(attempts []model.Attempt) (first, last []model.Attempt, ok bool) {
	var answered []model.Attempt
	for _, a := range attempts {
		if !a.Skipped && !a.Malformed {
			answered = append(answered, a)
		}
	}
	if len(answered) < 3 {
		return nil, nil, false
	}
	third := len(answered) / 3
	return answered[:third], answered[len(answered)-third:], true
}

// TimeTrend detects pacing drift over the course of the test.
func TimeTrend(attempts []model.Attempt) TrendResult {
	first, last, ok := thirds(attempts)
	if !ok {
		return TrendResult{
			Trend:       TrendInsufficientData,
			Description: "Not enough answered questions for trend analysis",
			Confidence:  "low",
		}
	}

	avgFirst := mean(times(first))
	avgLast := mean(times(last))

	var change float64
	if avgFirst > 0 {
		change = (avgLast - avgFirst) / avgFirst * 100
	}

	var trend, description string
	switch {
	case change < -15:
		trend, description = TrendSignificantlyFaster, "Getting much faster as test progresses"
	case change < -5:
		trend, description = TrendGettingFaster, "Gradually getting faster"
	case change > 15:
		trend, description = TrendSignificantlySlower, "Getting much slower as test progresses"
	case change > 5:
		trend, description = TrendGettingSlower, "Gradually getting slower"
	default:
		trend, description = TrendConsistent, "Maintaining consistent pace"
	}

	confidence := "medium"
	if change > 10 || change < -10 {
		confidence = "high"
	}

	return TrendResult{
		Trend:             trend,
		Description:       description,
		ChangePercentage:  ptr(round2(change)),
		FirstThirdAvgTime: ptr(round2(avgFirst)),
		LastThirdAvgTime:  ptr(round2(avgLast)),
		Confidence:        confidence,
	}
}

// AccuracyTrend detects accuracy drift over the course of the test. The
// change is measured in absolute percentage points, not relative percent.
func AccuracyTrend(attempts []model.Attempt) TrendResult {
	first, last, ok := thirds(attempts)
	if !ok {
		return TrendResult{
			Trend:       TrendInsufficientData,
			Description: "Not enough answered questions for accuracy trend analysis",
		}
	}

	accFirst := accuracyPct(first)
	accLast := accuracyPct(last)
	change := accLast - accFirst

	var trend, description string
	switch {
	case change > 20:
		trend, description = TrendSignificantlyImproving, "Accuracy significantly improving during test"
	case change > 10:
		trend, description = TrendImproving, "Accuracy improving during test"
	case change < -20:
		trend, description = TrendSignificantlyDeclining, "Accuracy significantly declining during test"
	case change < -10:
		trend, description = TrendDeclining, "Accuracy declining during test"
	default:
		trend, description = TrendStable, "Maintaining consistent accuracy"
	}

	return TrendResult{
		Trend:              trend,
		Description:        description,
		ChangePercentage:   ptr(round2(change)),
		FirstThirdAccuracy: ptr(round2(accFirst)),
		LastThirdAccuracy:  ptr(round2(accLast)),
	}
}

// ConsistencyScore converts the coefficient of variation of response times to
// a 0-100 scale where higher means steadier pacing.
func ConsistencyScore(responseTimes []float64) float64 {
	if len(responseTimes) < 2 {
		return 0
	}
	m := mean(responseTimes)
	if m == 0 {
		return 0
	}
	cv := sampleStdev(responseTimes) / m
	return round2(clampFloor(100-cv*100, 0))
}

func times(attempts []model.Attempt) []float64 {
	out := make([]float64, len(attempts))
	for i, a := range attempts {
		out[i] = a.TimeTaken
	}
	return out
}

func accuracyPct(attempts []model.Attempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	correct := 0
	for _, a := range attempts {
		if a.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(attempts)) * 100
}

func ptr(v float64) *float64 { return &v }
