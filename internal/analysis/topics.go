package analysis

import (
	"sort"

	"github.com/ajaysvasan/neurolearn/internal/model"
)

// Topic difficulty labels, checked in order; the first matching rule wins.
const (
	DifficultyVeryDifficultAvoid  = "very_difficult_avoid"
	DifficultyRisky               = "difficult_risky"
	DifficultyTimeConsumingRisky  = "time_consuming_risky"
	DifficultyComfortableStrength = "comfortable_strength"
	DifficultyModerate            = "moderate"
	DifficultyInsufficientData    = "insufficient_data"
)

// TopicStats holds per-topic performance.
// MarksEarned is recomputed from the base scheme without the speed bonus, so
// summing it across topics can fall short of MarkingSummary.TotalMarksEarned.
type TopicStats struct {
	AccuracyPercentage float64 `json:"accuracy_percentage"`
	// ScorePercentage is clamped to a floor of -100.
	ScorePercentage      float64 `json:"score_percentage"`
	MarksEarned          float64 `json:"marks_earned"`
	QuestionsTotal       int     `json:"questions_total"`
	QuestionsAttempted   int     `json:"questions_attempted"`
	QuestionsSkipped     int     `json:"questions_skipped"`
	CorrectAnswers       int     `json:"correct_answers"`
	AverageTimeSeconds   float64 `json:"average_time_seconds"`
	DifficultyAssessment string  `json:"difficulty_assessment"`
}

// WeakTopic is one entry in the weakest-topics ranking.
type WeakTopic struct {
	Topic              string  `json:"topic"`
	AccuracyPercentage float64 `json:"accuracy_percentage"`
	ScorePercentage    float64 `json:"score_percentage"`
	MarksEarned        float64 `json:"marks_earned"`
	QuestionsAttempted int     `json:"questions_attempted"`
	AverageTimeSeconds float64 `json:"average_time_seconds"`
	DifficultyLevel    string  `json:"difficulty_level"`
}

// TimeConsumingTopic is one entry in the most-time-consuming ranking.
type TimeConsumingTopic struct {
	Topic              string  `json:"topic"`
	AverageTimeSeconds float64 `json:"average_time_seconds"`
	ScorePercentage    float64 `json:"score_percentage"`
	QuestionsAttempted int     `json:"questions_attempted"`
}

// ProblemAreas ranks topics needing attention.
type ProblemAreas struct {
	WeakestTopics     []WeakTopic          `json:"weakest_topics"`
	MostTimeConsuming []TimeConsumingTopic `json:"most_time_consuming_topics"`
}

type topicBucket struct {
	total   int
	skipped int
	correct int
	marks   float64
	times   []float64
}

// AggregateTopics groups attempts by classified topic and computes per-topic
// accuracy, marks, timing, and a difficulty label. overallAvgTime is the mean
// response time across the whole test, used by the difficulty rules.
func (a *Analyzer) AggregateTopics(attempts []model.Attempt, overallAvgTime float64) map[string]TopicStats {
	buckets := make(map[string]*topicBucket)

	for _, att := range attempts {
		topic := a.topics.classify(att.QuestionText, att.Reference)
		b := buckets[topic]
		if b == nil {
			b = &topicBucket{}
			buckets[topic] = b
		}

		b.total++
		// Malformed records count toward the topic total but contribute no
		// marks or timing, same as in the marking engine.
		if att.Malformed {
			continue
		}
		if att.Skipped {
			b.skipped++
			continue
		}
		b.times = append(b.times, att.TimeTaken)
		if att.Correct {
			b.correct++
			b.marks += CorrectMarks
		} else {
			b.marks += IncorrectPenalty
		}
	}

	stats := make(map[string]TopicStats, len(buckets))
	for topic, b := range buckets {
		attempted := b.total - b.skipped
		accuracy := 0.0
		if attempted > 0 {
			accuracy = float64(b.correct) / float64(attempted) * 100
		}
		avgTime := mean(b.times)
		score := 0.0
		if b.total > 0 {
			score = b.marks / float64(b.total) * 100
		}

		stats[topic] = TopicStats{
			AccuracyPercentage:   round2(accuracy),
			ScorePercentage:      round2(clampFloor(score, -100)),
			MarksEarned:          round3(b.marks),
			QuestionsTotal:       b.total,
			QuestionsAttempted:   attempted,
			QuestionsSkipped:     b.skipped,
			CorrectAnswers:       b.correct,
			AverageTimeSeconds:   round2(avgTime),
			DifficultyAssessment: assessTopicDifficulty(avgTime, overallAvgTime, accuracy, b.marks, b.total),
		}
	}
	return stats
}

// assessTopicDifficulty labels a topic by ordered rule checks.
func assessTopicDifficulty(topicTime, overallAvg, accuracy, marks float64, totalQuestions int) string {
	if totalQuestions == 0 {
		return DifficultyInsufficientData
	}

	scorePercentage := marks / float64(totalQuestions) * 100

	switch {
	case scorePercentage < -10:
		return DifficultyVeryDifficultAvoid
	case scorePercentage < 10:
		return DifficultyRisky
	case accuracy < 50 && topicTime > overallAvg*1.3:
		return DifficultyTimeConsumingRisky
	case scorePercentage > 70 && topicTime < overallAvg*0.9:
		return DifficultyComfortableStrength
	default:
		return DifficultyModerate
	}
}

// rankedTopics returns the topic labels with at least one attempted question,
// in deterministic (sorted-label) order before ranking.
func rankedTopics(stats map[string]TopicStats) []string {
	var topics []string
	for topic, s := range stats {
		if s.QuestionsAttempted > 0 {
			topics = append(topics, topic)
		}
	}
	sort.Strings(topics)
	return topics
}

// IdentifyProblemAreas ranks the weakest (lowest score) and most
// time-consuming topics, three each, among topics with attempted questions.
func IdentifyProblemAreas(stats map[string]TopicStats) ProblemAreas {
	weakest := rankedTopics(stats)
	sort.SliceStable(weakest, func(i, j int) bool {
		return stats[weakest[i]].ScorePercentage < stats[weakest[j]].ScorePercentage
	})

	slowest := rankedTopics(stats)
	sort.SliceStable(slowest, func(i, j int) bool {
		return stats[slowest[i]].AverageTimeSeconds > stats[slowest[j]].AverageTimeSeconds
	})

	areas := ProblemAreas{}
	for _, topic := range topN(weakest, 3) {
		s := stats[topic]
		areas.WeakestTopics = append(areas.WeakestTopics, WeakTopic{
			Topic:              topic,
			AccuracyPercentage: s.AccuracyPercentage,
			ScorePercentage:    s.ScorePercentage,
			MarksEarned:        s.MarksEarned,
			QuestionsAttempted: s.QuestionsAttempted,
			AverageTimeSeconds: s.AverageTimeSeconds,
			DifficultyLevel:    s.DifficultyAssessment,
		})
	}
	for _, topic := range topN(slowest, 3) {
		s := stats[topic]
		areas.MostTimeConsuming = append(areas.MostTimeConsuming, TimeConsumingTopic{
			Topic:              topic,
			AverageTimeSeconds: s.AverageTimeSeconds,
			ScorePercentage:    s.ScorePercentage,
			QuestionsAttempted: s.QuestionsAttempted,
		})
	}
	return areas
}

func topN(topics []string, n int) []string {
	if len(topics) > n {
		return topics[:n]
	}
	return topics
}
