package analysis

import (
	"strings"
	"testing"

	"github.com/ajaysvasan/neurolearn/internal/model"
)

func TestRecommendNextDifficulty(t *testing.T) {
	tests := []struct {
		name                        string
		score                       float64
		avgTime                     float64
		correct, incorrect, skipped int
		want                        model.Difficulty
	}{
		{"strong and fast moves up", 80, 40, 9, 0, 1, model.DifficultyAdvanced},
		{"strong but slow stays", 80, 50, 9, 0, 1, model.DifficultyMedium},
		{"strong but cautious stays", 80, 40, 7, 0, 3, model.DifficultyMedium},
		{"middling stays", 55, 40, 5, 2, 3, model.DifficultyMedium},
		{"weak drops to easy", 30, 40, 2, 5, 3, model.DifficultyEasy},
		{"middling score but skipping drops", 55, 40, 3, 2, 5, model.DifficultyEasy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := makeAttempts(tt.correct, tt.incorrect, tt.skipped)
			rec := Recommend(tt.score, nil, tt.avgTime, attempts, nil)
			if rec.NextDifficultyLevel != tt.want {
				t.Errorf("next difficulty = %q, want %q", rec.NextDifficultyLevel, tt.want)
			}
		})
	}
}

func TestRecommendFocusAreas(t *testing.T) {
	stats := map[string]TopicStats{
		"circuits":    {ScorePercentage: 80, QuestionsAttempted: 3},
		"signals":     {ScorePercentage: -20, QuestionsAttempted: 2},
		"mathematics": {ScorePercentage: 15, QuestionsAttempted: 4},
		"digital":     {ScorePercentage: 50, QuestionsAttempted: 2},
	}
	rec := Recommend(50, stats, 45, makeAttempts(5, 3, 2), nil)

	if len(rec.PriorityFocusAreas) != 3 {
		t.Fatalf("focus areas len = %d, want 3", len(rec.PriorityFocusAreas))
	}

	first := rec.PriorityFocusAreas[0]
	if first.Topic != "signals" {
		t.Errorf("weakest focus area = %q, want signals", first.Topic)
	}
	if first.PriorityLevel != "high" {
		t.Errorf("priority = %q, want high for score below 20", first.PriorityLevel)
	}
	if first.FocusArea != "conceptual_understanding" {
		t.Errorf("focus = %q, want conceptual_understanding for negative score", first.FocusArea)
	}
	// 8 - (-20)/10 = 10 hours, at the cap.
	if first.RecommendedStudyHours != 10 {
		t.Errorf("study hours = %d, want 10", first.RecommendedStudyHours)
	}

	second := rec.PriorityFocusAreas[1]
	if second.Topic != "mathematics" || second.PriorityLevel != "high" {
		t.Errorf("second focus area = %+v", second)
	}
	if second.FocusArea != "practice_and_speed" {
		t.Errorf("focus = %q, want practice_and_speed for positive score", second.FocusArea)
	}

	third := rec.PriorityFocusAreas[2]
	if third.Topic != "digital" || third.PriorityLevel != "medium" {
		t.Errorf("third focus area = %+v", third)
	}
	// 8 - 50/10 = 3 hours.
	if third.RecommendedStudyHours != 3 {
		t.Errorf("study hours = %d, want 3", third.RecommendedStudyHours)
	}

	if len(rec.ImmediateActions) == 0 || !strings.Contains(rec.ImmediateActions[0], "signals") {
		t.Errorf("immediate actions = %v, want first entry naming signals", rec.ImmediateActions)
	}
}

func TestRecommendStudyHoursFloor(t *testing.T) {
	stats := map[string]TopicStats{
		"circuits": {ScorePercentage: 95, QuestionsAttempted: 3},
	}
	rec := Recommend(80, stats, 40, makeAttempts(9, 1, 0), nil)
	if len(rec.PriorityFocusAreas) != 1 {
		t.Fatalf("focus areas len = %d, want 1", len(rec.PriorityFocusAreas))
	}
	// 8 - 95/10 rounds down below the floor of 2.
	if got := rec.PriorityFocusAreas[0].RecommendedStudyHours; got != 2 {
		t.Errorf("study hours = %d, want 2", got)
	}
}

func TestRecommendConditionalAdvice(t *testing.T) {
	t.Run("slow pace triggers time advice", func(t *testing.T) {
		rec := Recommend(60, nil, 55, makeAttempts(5, 2, 3), nil)
		if len(rec.TimeManagementAdvice) == 0 {
			t.Error("expected time management advice for avg time above 50s")
		}
	})
	t.Run("fast pace gets none", func(t *testing.T) {
		rec := Recommend(60, nil, 40, makeAttempts(5, 2, 3), nil)
		if len(rec.TimeManagementAdvice) != 0 {
			t.Errorf("unexpected time advice: %v", rec.TimeManagementAdvice)
		}
	})
	t.Run("high error rate triggers risk advice", func(t *testing.T) {
		rec := Recommend(40, nil, 45, makeAttempts(3, 4, 3), nil)
		if len(rec.RiskManagement) == 0 {
			t.Error("expected risk management advice with over 30% incorrect")
		}
	})
	t.Run("low score gets fundamentals strategy", func(t *testing.T) {
		rec := Recommend(30, nil, 45, makeAttempts(3, 4, 3), nil)
		if len(rec.StudyStrategy) == 0 || !strings.Contains(rec.StudyStrategy[0], "fundamental") {
			t.Errorf("study strategy = %v", rec.StudyStrategy)
		}
	})
	t.Run("high score gets advanced strategy", func(t *testing.T) {
		rec := Recommend(70, nil, 45, makeAttempts(8, 1, 1), nil)
		if len(rec.StudyStrategy) == 0 || !strings.Contains(rec.StudyStrategy[0], "advanced") {
			t.Errorf("study strategy = %v", rec.StudyStrategy)
		}
	})
}

func TestRecommendLongTermGoals(t *testing.T) {
	rec := Recommend(85, nil, 40, makeAttempts(9, 1, 0), nil)
	if len(rec.LongTermGoals) != 3 {
		t.Fatalf("long term goals len = %d, want 3", len(rec.LongTermGoals))
	}
	// Target score caps at 90 and target time floors at 35.
	if !strings.Contains(rec.LongTermGoals[0], "90%") {
		t.Errorf("goal = %q, want 90%% target", rec.LongTermGoals[0])
	}
	if !strings.Contains(rec.LongTermGoals[1], "35 seconds") {
		t.Errorf("goal = %q, want 35 second target", rec.LongTermGoals[1])
	}
}

func TestRecommendCarriesStrategyAdvice(t *testing.T) {
	strategy := &StrategyReport{Recommendations: []string{"keep skipping wisely"}}
	rec := Recommend(60, nil, 45, makeAttempts(5, 2, 3), strategy)
	if len(rec.NegativeMarkingStrategy) != 1 || rec.NegativeMarkingStrategy[0] != "keep skipping wisely" {
		t.Errorf("negative marking strategy = %v", rec.NegativeMarkingStrategy)
	}
}
