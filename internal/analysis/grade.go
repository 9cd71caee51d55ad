package analysis

import "log/slog"

// ReadinessLevel estimates exam preparedness.
type ReadinessLevel string

const (
	ReadinessReady            ReadinessLevel = "ready"
	ReadinessAlmostReady      ReadinessLevel = "almost_ready"
	ReadinessNeedsImprovement ReadinessLevel = "needs_improvement"
	ReadinessSignificantPrep  ReadinessLevel = "significant_preparation_needed"
)

// ScoreComponents itemizes the adjustments applied to the base score.
type ScoreComponents struct {
	BaseScore                float64 `json:"base_score"`
	StrategyAdjustment       float64 `json:"strategy_adjustment"`
	AttemptRateAdjustment    float64 `json:"attempt_rate_adjustment"`
	TimeManagementAdjustment float64 `json:"time_management_adjustment"`
	NegativeMarkingImpact    float64 `json:"negative_marking_impact"`
}

// Readiness is the qualitative exam-readiness assessment.
type Readiness struct {
	Level                    ReadinessLevel `json:"readiness_level"`
	EstimatedPreparationTime string         `json:"estimated_preparation_time"`
	ConfidenceScore          float64        `json:"confidence_score"`
	KeyStrengths             []string       `json:"key_strengths"`
	CriticalGaps             []string       `json:"critical_gaps"`
}

// GradeReport combines the letter grade with the readiness assessment.
type GradeReport struct {
	LetterGrade      string          `json:"letter_grade"`
	PerformanceLevel string          `json:"performance_level"`
	OverallScore     float64         `json:"overall_score"`
	Readiness        Readiness       `json:"exam_readiness"`
	ScoreComponents  ScoreComponents `json:"score_components"`
	GradeExplanation string          `json:"grade_explanation"`
	Error            string          `json:"error,omitempty"`
}

// AssessGrade computes the final graded assessment from the marking outcome,
// timing, and attempt behavior. The base score plus three additive
// adjustments is clamped to [0, 100] before grading.
func AssessGrade(summary MarkingSummary, eff EfficiencyMetrics, avgTime float64) *GradeReport {
	baseScore := clampFloor(summary.PercentageScore, 0)

	var strategyAdj float64
	switch {
	case eff.NegativeImpact > 15:
		strategyAdj = -10
	case eff.NegativeImpact > 10:
		strategyAdj = -5
	}

	var attemptAdj float64
	switch {
	case eff.AttemptRate > 85 && baseScore > 60:
		attemptAdj = 5
	case eff.AttemptRate < 60:
		attemptAdj = -5
	}

	var timeAdj float64
	switch {
	case avgTime < 35:
		timeAdj = 3
	case avgTime > 55:
		timeAdj = -3
	}

	finalScore := clamp(baseScore+strategyAdj+attemptAdj+timeAdj, 0, 100)

	grade, level := letterGrade(finalScore)

	return &GradeReport{
		LetterGrade:      grade,
		PerformanceLevel: level,
		OverallScore:     round2(finalScore),
		Readiness:        assessReadiness(finalScore, eff, avgTime),
		ScoreComponents: ScoreComponents{
			BaseScore:                round2(baseScore),
			StrategyAdjustment:       strategyAdj,
			AttemptRateAdjustment:    attemptAdj,
			TimeManagementAdjustment: timeAdj,
			NegativeMarkingImpact:    round2(eff.NegativeImpact),
		},
		GradeExplanation: gradeExplanations[grade],
	}
}

func letterGrade(score float64) (grade, level string) {
	switch {
	case score >= 85:
		return "A+", "Excellent - Exam Ready"
	case score >= 75:
		return "A", "Very Good - Strong Exam Potential"
	case score >= 65:
		return "B+", "Good - Focused Improvement Needed"
	case score >= 50:
		return "B", "Average - Significant Preparation Required"
	case score >= 35:
		return "C", "Below Average - Extensive Preparation Needed"
	default:
		return "D", "Poor - Fundamental Revision Required"
	}
}

var gradeExplanations = map[string]string{
	"A+": "Outstanding performance with excellent negative marking strategy",
	"A":  "Very good performance with effective test-taking approach",
	"B+": "Good performance but room for improvement in strategy or content",
	"B":  "Average performance requiring focused preparation",
	"C":  "Below average performance requiring significant improvement",
	"D":  "Poor performance requiring fundamental concept revision",
}

// assessReadiness maps the final score and attempt behavior to a readiness
// tier. Tiers are checked in order; the first match wins, so every input maps
// to exactly one tier.
func assessReadiness(finalScore float64, eff EfficiencyMetrics, avgTime float64) Readiness {
	var r Readiness
	switch {
	case finalScore >= 75 && eff.AttemptRate > 80 && eff.CorrectAttemptRatio > 70 && avgTime < 50:
		r.Level = ReadinessReady
		r.EstimatedPreparationTime = "1-2 months of focused practice and mock tests"
		r.ConfidenceScore = min(95, finalScore*1.1)
	case finalScore >= 60 && eff.AttemptRate > 70 && eff.CorrectAttemptRatio > 60:
		r.Level = ReadinessAlmostReady
		r.EstimatedPreparationTime = "3-4 months of structured preparation"
		r.ConfidenceScore = min(85, finalScore*1.0)
	case finalScore >= 45 && eff.AttemptRate > 60:
		r.Level = ReadinessNeedsImprovement
		r.EstimatedPreparationTime = "6-8 months of comprehensive preparation"
		r.ConfidenceScore = min(75, finalScore*0.9)
	default:
		r.Level = ReadinessSignificantPrep
		r.EstimatedPreparationTime = "12+ months of intensive preparation required"
		r.ConfidenceScore = min(60, finalScore*0.8)
	}
	r.ConfidenceScore = round2(r.ConfidenceScore)
	r.KeyStrengths = identifyStrengths(eff)
	r.CriticalGaps = identifyGaps(eff)
	return r
}

func identifyStrengths(eff EfficiencyMetrics) []string {
	var strengths []string
	if eff.AttemptRate > 80 {
		strengths = append(strengths, "Good attempt rate - not overly cautious")
	}
	if eff.CorrectAttemptRatio > 70 {
		strengths = append(strengths, "High accuracy on attempted questions")
	}
	if eff.NegativeImpact < 10 {
		strengths = append(strengths, "Effective negative marking management")
	}
	return strengths
}

func identifyGaps(eff EfficiencyMetrics) []string {
	var gaps []string
	if eff.NegativeImpact > 15 {
		gaps = append(gaps, "High negative marking impact")
	}
	if eff.AttemptRate < 60 {
		gaps = append(gaps, "Low attempt rate - too cautious")
	}
	if eff.CorrectAttemptRatio < 50 {
		gaps = append(gaps, "Low accuracy on attempted questions")
	}
	return gaps
}

// safeGrade degrades grading failures to an error section instead of losing
// the rest of the report.
func safeGrade(summary MarkingSummary, eff EfficiencyMetrics, avgTime float64) (rep *GradeReport) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("grade assessment failed", "panic", r)
			rep = &GradeReport{Error: "grade assessment failed"}
		}
	}()
	return AssessGrade(summary, eff, avgTime)
}
