package analysis

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ajaysvasan/neurolearn/internal/model"
)

func TestAnalyzeEmptyInput(t *testing.T) {
	_, err := New().Analyze(nil)
	if !errors.Is(err, ErrNoAttempts) {
		t.Fatalf("Analyze(nil) error = %v, want ErrNoAttempts", err)
	}
}

func TestAnalyzeFullPipeline(t *testing.T) {
	attempts := []model.Attempt{
		{QuestionNumber: 1, QuestionText: "voltage across the circuit", UserAnswer: model.AnswerA, CorrectAnswer: model.AnswerA, Correct: true, TimeTaken: 25},
		{QuestionNumber: 2, QuestionText: "impedance of the capacitor circuit", UserAnswer: model.AnswerB, CorrectAnswer: model.AnswerA, TimeTaken: 55},
		{QuestionNumber: 3, QuestionText: "calculate the derivative", UserAnswer: model.AnswerC, CorrectAnswer: model.AnswerC, Correct: true, TimeTaken: 40},
		{QuestionNumber: 4, QuestionText: "fourier spectrum of the signal", UserAnswer: model.AnswerSkip, CorrectAnswer: model.AnswerD, Skipped: true},
		{QuestionNumber: 5, QuestionText: "sql query on the index", UserAnswer: model.AnswerA, CorrectAnswer: model.AnswerA, Correct: true, TimeTaken: 35},
	}

	rep, err := New().Analyze(attempts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if rep.Metadata.AnalysisVersion != analysisVersion {
		t.Errorf("analysis version = %q", rep.Metadata.AnalysisVersion)
	}
	if !rep.Metadata.NegativeMarkingEnabled {
		t.Error("negative marking flag not set")
	}
	if rep.Metadata.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	// 3 correct (one fast earns the bonus), 1 incorrect, 1 skipped.
	want := 3 + 0.1 - 1.0/3.0
	if !almostEqual(rep.MarkingSummary.TotalMarksEarned, want, 0.001) {
		t.Errorf("total marks = %v, want %v", rep.MarkingSummary.TotalMarksEarned, want)
	}
	if rep.Overall.TotalQuestions != 5 || rep.Overall.QuestionsAttempted != 4 || rep.Overall.QuestionsSkipped != 1 {
		t.Errorf("overall counts = %+v", rep.Overall)
	}
	if rep.Overall.AccuracyPercentage != 60 {
		t.Errorf("accuracy = %v, want 60", rep.Overall.AccuracyPercentage)
	}
	// Skips contribute no response time.
	if !almostEqual(rep.Overall.AverageTimePerQuestion, (25.0+55+40+35)/4, 0.01) {
		t.Errorf("avg time = %v", rep.Overall.AverageTimePerQuestion)
	}
	if rep.Overall.TotalTimeSpentSeconds != 155 {
		t.Errorf("total time = %v, want 155", rep.Overall.TotalTimeSpentSeconds)
	}

	if len(rep.QuestionMarks) != 5 {
		t.Errorf("question marks len = %d, want 5", len(rep.QuestionMarks))
	}
	if len(rep.Topics) == 0 {
		t.Error("no topic stats produced")
	}
	if _, ok := rep.Topics["circuits"]; !ok {
		t.Errorf("topics = %v, want circuits bucket", rep.Topics)
	}
	if rep.Strategy == nil || rep.Strategy.Error != "" {
		t.Errorf("strategy section = %+v", rep.Strategy)
	}
	if rep.Grade == nil || rep.Grade.LetterGrade == "" {
		t.Errorf("grade section = %+v", rep.Grade)
	}
	if rep.Recommendations == nil || rep.Recommendations.Error != "" {
		t.Errorf("recommendations section = %+v", rep.Recommendations)
	}
}

func TestAnalyzeAllIncorrectStaysInRange(t *testing.T) {
	rep, err := New().Analyze(makeAttempts(0, 10, 0))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	p := rep.MarkingSummary.PercentageScore
	if p < 0 || p > 100 {
		t.Errorf("percentage = %v, out of [0,100]", p)
	}
	if p != 0 {
		t.Errorf("percentage = %v, want 0 for all-incorrect input", p)
	}
	if rep.Grade.LetterGrade != "D" {
		t.Errorf("grade = %q, want D", rep.Grade.LetterGrade)
	}
}

func TestAnalyzeExcludesImplausibleTimes(t *testing.T) {
	attempts := makeAttempts(2, 0, 0)
	attempts = append(attempts, model.Attempt{
		QuestionNumber: 3,
		UserAnswer:     model.AnswerA,
		CorrectAnswer:  model.AnswerA,
		Correct:        true,
		TimeTaken:      5000,
	})

	rep, err := New().Analyze(attempts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	// The 5000s outlier is dropped from timing but keeps its marks.
	if rep.Overall.AverageTimePerQuestion != 45 {
		t.Errorf("avg time = %v, want 45", rep.Overall.AverageTimePerQuestion)
	}
	if rep.MarkingSummary.TotalMarksEarned != 3 {
		t.Errorf("total marks = %v, want 3", rep.MarkingSummary.TotalMarksEarned)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	attempts := makeAttempts(4, 3, 3)

	first, err := New().Analyze(attempts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for i := 0; i < 3; i++ {
		rep, err := New().Analyze(attempts)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		// The timestamp is the only field allowed to differ.
		rep.Metadata.Timestamp = first.Metadata.Timestamp
		a, _ := json.Marshal(first)
		b, _ := json.Marshal(rep)
		if string(a) != string(b) {
			t.Fatalf("run %d produced a different report", i)
		}
	}
}

func TestReportJSONFieldNames(t *testing.T) {
	rep, err := New().Analyze(makeAttempts(3, 1, 1))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	raw, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{
		"test_metadata", "marking_summary", "answer_distribution",
		"efficiency_metrics", "question_wise_marks", "overall_performance",
		"topic_wise_analysis", "problem_areas", "performance_trends",
		"strategy_analysis", "grade_assessment", "recommendations",
	} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("report JSON missing %q", key)
		}
	}
}
