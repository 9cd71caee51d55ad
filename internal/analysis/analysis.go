// Package analysis converts a sequence of timed question attempts into a
// negative-marking result with topic diagnostics, trend analysis, and a
// graded readiness assessment.
package analysis

import (
	"errors"
	"time"

	"github.com/ajaysvasan/neurolearn/internal/model"
)

// ErrNoAttempts signals an empty attempt list. Every aggregate entry point
// returns it instead of dividing by zero.
var ErrNoAttempts = errors.New("no attempts to analyze")

// maxReasonableTime bounds response times admitted into timing aggregates.
// Out-of-range values still count in marking.
const maxReasonableTime = 300.0

const analysisVersion = "3.0"

// Analyzer produces performance reports. It holds only the topic
// classification cache, so one instance must not be shared across concurrent
// submissions; create one per call site instead.
type Analyzer struct {
	topics *classifier
}

// New creates an Analyzer with an empty topic cache.
func New() *Analyzer {
	return &Analyzer{topics: newClassifier()}
}

// ClassifyTopic maps question text plus an optional document reference to one
// of the fixed topic labels.
func (a *Analyzer) ClassifyTopic(questionText, reference string) string {
	return a.topics.classify(questionText, reference)
}

// TestMetadata describes the analyzed test run.
type TestMetadata struct {
	Timestamp              time.Time `json:"timestamp"`
	TotalDurationSeconds   float64   `json:"total_duration_seconds"`
	NegativeMarkingEnabled bool      `json:"negative_marking_enabled"`
	AnalysisVersion        string    `json:"analysis_version"`
}

// OverallPerformance is the headline metrics block of the report.
type OverallPerformance struct {
	TotalQuestions         int     `json:"total_questions"`
	QuestionsAttempted     int     `json:"questions_attempted"`
	QuestionsSkipped       int     `json:"questions_skipped"`
	CorrectAnswers         int     `json:"correct_answers"`
	IncorrectAnswers       int     `json:"incorrect_answers"`
	AccuracyPercentage     float64 `json:"accuracy_percentage"`
	ScorePercentage        float64 `json:"score_percentage"`
	MarksEarned            float64 `json:"marks_earned"`
	MaximumPossibleMarks   float64 `json:"maximum_possible_marks"`
	AverageTimePerQuestion float64 `json:"average_time_per_question_seconds"`
	MedianTimePerQuestion  float64 `json:"median_time_per_question_seconds"`
	TotalTimeSpentSeconds  float64 `json:"total_time_spent_seconds"`
}

// Report is the complete analysis of one test submission. It is built once
// and never mutated afterwards.
type Report struct {
	Metadata        TestMetadata          `json:"test_metadata"`
	MarkingSummary  MarkingSummary        `json:"marking_summary"`
	Distribution    AnswerDistribution    `json:"answer_distribution"`
	Efficiency      EfficiencyMetrics     `json:"efficiency_metrics"`
	QuestionMarks   []QuestionMark        `json:"question_wise_marks"`
	Overall         OverallPerformance    `json:"overall_performance"`
	Topics          map[string]TopicStats `json:"topic_wise_analysis"`
	ProblemAreas    ProblemAreas          `json:"problem_areas"`
	Trends          PerformanceTrends     `json:"performance_trends"`
	Strategy        *StrategyReport       `json:"strategy_analysis"`
	Grade           *GradeReport          `json:"grade_assessment"`
	Recommendations *Recommendations      `json:"recommendations"`
}

// Analyze runs the full pipeline over the attempts. An empty list returns
// ErrNoAttempts; failures inside the strategy, grade, or recommendation
// sections degrade to an error field on that section so the caller always
// gets a best-effort full report.
func (a *Analyzer) Analyze(attempts []model.Attempt) (*Report, error) {
	if len(attempts) == 0 {
		return nil, ErrNoAttempts
	}

	marking, err := Score(attempts)
	if err != nil {
		return nil, err
	}

	// Timing aggregates admit only plausible response times.
	var responseTimes []float64
	for _, att := range attempts {
		if att.Skipped || att.Malformed {
			continue
		}
		if att.TimeTaken >= 0 && att.TimeTaken <= maxReasonableTime {
			responseTimes = append(responseTimes, att.TimeTaken)
		}
	}
	avgTime := mean(responseTimes)
	medianTime := median(responseTimes)

	topicStats := a.AggregateTopics(attempts, avgTime)
	strategy := safeStrategy(attempts)
	grade := safeGrade(marking.Summary, marking.Efficiency, avgTime)
	recommendations := safeRecommend(marking.Summary.PercentageScore, topicStats, avgTime, attempts, strategy)

	dist := marking.Distribution
	return &Report{
		Metadata: TestMetadata{
			Timestamp:              time.Now(),
			TotalDurationSeconds:   round2(sum(responseTimes)),
			NegativeMarkingEnabled: true,
			AnalysisVersion:        analysisVersion,
		},
		MarkingSummary: marking.Summary,
		Distribution:   dist,
		Efficiency:     marking.Efficiency,
		QuestionMarks:  marking.QuestionMarks,
		Overall: OverallPerformance{
			TotalQuestions:         dist.TotalQuestions,
			QuestionsAttempted:     dist.TotalQuestions - dist.SkippedAnswers,
			QuestionsSkipped:       dist.SkippedAnswers,
			CorrectAnswers:         dist.CorrectAnswers,
			IncorrectAnswers:       dist.IncorrectAnswers,
			AccuracyPercentage:     round2(float64(dist.CorrectAnswers) / float64(dist.TotalQuestions) * 100),
			ScorePercentage:        marking.Summary.PercentageScore,
			MarksEarned:            marking.Summary.TotalMarksEarned,
			MaximumPossibleMarks:   marking.Summary.MaximumPossibleMarks,
			AverageTimePerQuestion: round2(avgTime),
			MedianTimePerQuestion:  round2(medianTime),
			TotalTimeSpentSeconds:  round2(sum(responseTimes)),
		},
		Topics:       topicStats,
		ProblemAreas: IdentifyProblemAreas(topicStats),
		Trends: PerformanceTrends{
			TimeManagement:   TimeTrend(attempts),
			Accuracy:         AccuracyTrend(attempts),
			ConsistencyScore: ConsistencyScore(responseTimes),
		},
		Strategy:        strategy,
		Grade:           grade,
		Recommendations: recommendations,
	}, nil
}
