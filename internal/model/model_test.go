package model

import (
	"encoding/json"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestNormalizeDefaults(t *testing.T) {
	tests := []struct {
		name        string
		record      AttemptRecord
		wantUser    Answer
		wantCorrect Answer
		wantSkipped bool
		wantRight   bool
		wantTime    float64
	}{
		{
			name:        "fully populated",
			record:      AttemptRecord{QuestionNumber: 3, UserAnswer: "B", CorrectAnswer: "B", TimeTaken: 42.5},
			wantUser:    AnswerB,
			wantCorrect: AnswerB,
			wantRight:   true,
			wantTime:    42.5,
		},
		{
			name:        "missing user answer means skip",
			record:      AttemptRecord{CorrectAnswer: "C"},
			wantUser:    AnswerSkip,
			wantCorrect: AnswerC,
			wantSkipped: true,
		},
		{
			name:        "missing correct answer defaults to A",
			record:      AttemptRecord{UserAnswer: "A", TimeTaken: 10.0},
			wantUser:    AnswerA,
			wantCorrect: AnswerA,
			wantRight:   true,
			wantTime:    10,
		},
		{
			name:        "invalid answer letters treated as absent",
			record:      AttemptRecord{UserAnswer: "E", CorrectAnswer: "X"},
			wantUser:    AnswerSkip,
			wantCorrect: AnswerA,
			wantSkipped: true,
		},
		{
			name:        "wrong answer",
			record:      AttemptRecord{UserAnswer: "D", CorrectAnswer: "A", TimeTaken: 30.0},
			wantUser:    AnswerD,
			wantCorrect: AnswerA,
			wantTime:    30,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := tt.record.Normalize(0)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if a.UserAnswer != tt.wantUser {
				t.Errorf("user answer = %q, want %q", a.UserAnswer, tt.wantUser)
			}
			if a.CorrectAnswer != tt.wantCorrect {
				t.Errorf("correct answer = %q, want %q", a.CorrectAnswer, tt.wantCorrect)
			}
			if a.Skipped != tt.wantSkipped {
				t.Errorf("skipped = %v, want %v", a.Skipped, tt.wantSkipped)
			}
			if a.Correct != tt.wantRight {
				t.Errorf("correct = %v, want %v", a.Correct, tt.wantRight)
			}
			if a.TimeTaken != tt.wantTime {
				t.Errorf("time = %v, want %v", a.TimeTaken, tt.wantTime)
			}
		})
	}
}

func TestNormalizeExplicitFlagsWin(t *testing.T) {
	// Flags from the record override what the answers imply.
	rec := AttemptRecord{
		UserAnswer:    "B",
		CorrectAnswer: "B",
		IsCorrect:     boolPtr(false),
		IsSkipped:     boolPtr(false),
	}
	a, err := rec.Normalize(0)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if a.Correct {
		t.Error("explicit is_correct=false should win over matching answers")
	}
	if !a.Incorrect() {
		t.Error("attempt should read as incorrect")
	}

	// A skipped record is never correct, whatever the flag says.
	rec = AttemptRecord{
		UserAnswer: "B", CorrectAnswer: "B",
		IsCorrect: boolPtr(true), IsSkipped: boolPtr(true),
	}
	a, err = rec.Normalize(0)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if a.Correct {
		t.Error("skipped attempt must not be correct")
	}
}

func TestNormalizeQuestionNumber(t *testing.T) {
	a, err := AttemptRecord{}.Normalize(4)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if a.QuestionNumber != 5 {
		t.Errorf("question number = %d, want 5 from batch position", a.QuestionNumber)
	}

	a, err = AttemptRecord{QuestionNumber: 12}.Normalize(4)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if a.QuestionNumber != 12 {
		t.Errorf("question number = %d, want 12 from record", a.QuestionNumber)
	}
}

func TestNormalizeTimeValues(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    float64
		wantErr bool
	}{
		{"absent", nil, 0, false},
		{"float", 42.5, 42.5, false},
		{"int", 30, 30, false},
		{"numeric string", "12.5", 12.5, false},
		{"non-numeric string", "fast", 0, true},
		{"wrong type", []string{"30"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := AttemptRecord{UserAnswer: "A", CorrectAnswer: "A", TimeTaken: tt.value}
			a, err := rec.Normalize(0)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if !a.Malformed {
					t.Error("attempt should be flagged malformed")
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if a.Malformed {
				t.Error("attempt unexpectedly flagged malformed")
			}
			if a.TimeTaken != tt.want {
				t.Errorf("time = %v, want %v", a.TimeTaken, tt.want)
			}
		})
	}
}

func TestNormalizeFromJSON(t *testing.T) {
	// Decoded JSON carries times as float64 or string, never int.
	raw := `[
		{"question_number": 1, "user_answer": "A", "correct_answer": "A", "time_taken": 25},
		{"question_number": 2, "user_answer": "B", "correct_answer": "A", "time_taken": "61.5"},
		{"question_number": 3, "correct_answer": "D"}
	]`
	var records []AttemptRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	var attempts []Attempt
	for i, r := range records {
		a, err := r.Normalize(i)
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		attempts = append(attempts, a)
	}

	if !attempts[0].Correct || attempts[0].TimeTaken != 25 {
		t.Errorf("attempt 1 = %+v", attempts[0])
	}
	if !attempts[1].Incorrect() || attempts[1].TimeTaken != 61.5 {
		t.Errorf("attempt 2 = %+v", attempts[1])
	}
	if !attempts[2].Skipped || attempts[2].UserAnswer != AnswerSkip {
		t.Errorf("attempt 3 = %+v", attempts[2])
	}
}

func TestAnswerIsChoice(t *testing.T) {
	for _, a := range []Answer{AnswerA, AnswerB, AnswerC, AnswerD} {
		if !a.IsChoice() {
			t.Errorf("%q should be a choice", a)
		}
	}
	for _, a := range []Answer{AnswerSkip, Answer(""), Answer("e"), Answer("AB")} {
		if a.IsChoice() {
			t.Errorf("%q should not be a choice", a)
		}
	}
}
