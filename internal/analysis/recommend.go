package analysis

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/ajaysvasan/neurolearn/internal/model"
)

// FocusArea is one prioritized weak topic with a study-effort estimate.
type FocusArea struct {
	Topic                 string  `json:"topic"`
	ScorePercentage       float64 `json:"score_percentage"`
	PriorityLevel         string  `json:"priority_level"`
	RecommendedStudyHours int     `json:"recommended_study_hours"`
	FocusArea             string  `json:"focus_area"`
}

// Recommendations holds the templated advisory output of the analysis.
type Recommendations struct {
	NextDifficultyLevel     model.Difficulty `json:"next_difficulty_level"`
	NegativeMarkingStrategy []string         `json:"negative_marking_strategy"`
	PriorityFocusAreas      []FocusArea      `json:"priority_focus_areas"`
	TimeManagementAdvice    []string         `json:"time_management_advice"`
	StudyStrategy           []string         `json:"study_strategy"`
	RiskManagement          []string         `json:"risk_management"`
	ImmediateActions        []string         `json:"immediate_actions"`
	LongTermGoals           []string         `json:"long_term_goals"`
	Error                   string           `json:"error,omitempty"`
}

// Recommend derives advisory guidance from the analysis results.
func Recommend(performanceScore float64, topicStats map[string]TopicStats, avgTime float64,
	attempts []model.Attempt, strategy *StrategyReport) *Recommendations {

	rec := &Recommendations{NextDifficultyLevel: model.DifficultyMedium}
	if strategy != nil {
		rec.NegativeMarkingStrategy = strategy.Recommendations
	}

	total := len(attempts)
	var attempted, incorrect int
	for _, a := range attempts {
		if !a.Skipped {
			attempted++
		}
		if a.Incorrect() {
			incorrect++
		}
	}
	attemptRate := float64(attempted) / float64(max(1, total))

	switch {
	case performanceScore >= 75 && avgTime < 45 && attemptRate > 0.8:
		rec.NextDifficultyLevel = model.DifficultyAdvanced
	case performanceScore >= 50 && attemptRate > 0.6:
		rec.NextDifficultyLevel = model.DifficultyMedium
	default:
		rec.NextDifficultyLevel = model.DifficultyEasy
	}

	weakest := rankedTopics(topicStats)
	sortByScoreAsc(weakest, topicStats)
	weakest = topN(weakest, 3)

	for _, topic := range weakest {
		s := topicStats[topic]
		priority := "medium"
		if s.ScorePercentage < 20 {
			priority = "high"
		}
		hours := int(8 - s.ScorePercentage/10)
		if hours < 2 {
			hours = 2
		}
		if hours > 10 {
			hours = 10
		}
		focus := "practice_and_speed"
		if s.ScorePercentage < 0 {
			focus = "conceptual_understanding"
		}
		rec.PriorityFocusAreas = append(rec.PriorityFocusAreas, FocusArea{
			Topic:                 topic,
			ScorePercentage:       s.ScorePercentage,
			PriorityLevel:         priority,
			RecommendedStudyHours: hours,
			FocusArea:             focus,
		})
	}

	if avgTime > 50 {
		rec.TimeManagementAdvice = append(rec.TimeManagementAdvice,
			"Practice time-bound problem solving daily",
			"Learn elimination techniques for multiple choice questions",
			"Set target time of 45 seconds per question for practice",
		)
	}

	if float64(incorrect)/float64(max(1, total)) > 0.3 {
		rec.RiskManagement = append(rec.RiskManagement,
			"High negative marking impact - practice confidence assessment",
			"Learn to quickly identify questions outside your comfort zone",
			"Develop systematic elimination strategies",
		)
	}

	if performanceScore < 50 {
		rec.StudyStrategy = append(rec.StudyStrategy,
			"Focus on fundamental concept building",
			"Solve topic-wise questions before attempting mixed tests",
			"Create concept summary sheets for quick revision",
		)
	} else {
		rec.StudyStrategy = append(rec.StudyStrategy,
			"Focus on advanced problem-solving techniques",
			"Practice full-length mock tests regularly",
			"Analyze and learn from mistake patterns",
		)
	}

	if len(weakest) > 0 {
		rec.ImmediateActions = append(rec.ImmediateActions,
			fmt.Sprintf("Start intensive practice in %s - highest impact area", weakest[0]))
	}

	targetScore := min(90, performanceScore+20)
	targetTime := clampFloor(avgTime-10, 35)
	rec.LongTermGoals = []string{
		fmt.Sprintf("Achieve %g%% score in next assessment", round2(targetScore)),
		fmt.Sprintf("Reduce average time to %g seconds per question", round2(targetTime)),
		"Master negative marking strategy for optimal risk-reward balance",
	}

	return rec
}

func sortByScoreAsc(topics []string, stats map[string]TopicStats) {
	sort.SliceStable(topics, func(i, j int) bool {
		return stats[topics[i]].ScorePercentage < stats[topics[j]].ScorePercentage
	})
}

// safeRecommend degrades recommendation failures to an error section.
func safeRecommend(performanceScore float64, topicStats map[string]TopicStats, avgTime float64,
	attempts []model.Attempt, strategy *StrategyReport) (rec *Recommendations) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("recommendation generation failed", "panic", r)
			rec = &Recommendations{Error: "failed to generate recommendations"}
		}
	}()
	return Recommend(performanceScore, topicStats, avgTime, attempts, strategy)
}
