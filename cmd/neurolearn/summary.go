package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ajaysvasan/neurolearn/internal/analysis"
	appI18n "github.com/ajaysvasan/neurolearn/internal/i18n"
)

var titleCaser = cases.Title(language.English)

// humanize turns a snake_case label into a display string.
func humanize(label string) string {
	return titleCaser.String(strings.ReplaceAll(label, "_", " "))
}

// renderSummary prints the localized console summary of an analysis report.
func renderSummary(ctx context.Context, w io.Writer, rep *analysis.Report, fb string) {
	p := func(format string, args ...any) {
		fmt.Fprintf(w, format+"\n", args...)
	}

	p("")
	p("%s", appI18n.T(ctx, "SummaryTitle"))
	p("%s", strings.Repeat("=", 80))
	p("%s", appI18n.Tp(ctx, "QuestionsAnalyzed", rep.Overall.TotalQuestions))

	p("")
	p("%s", appI18n.T(ctx, "OverallHeader"))
	if rep.Grade != nil && rep.Grade.Error == "" {
		p("%s", appI18n.Td(ctx, "GradeLine", map[string]any{
			"Grade": rep.Grade.LetterGrade,
			"Level": rep.Grade.PerformanceLevel,
		}))
	}
	p("%s", appI18n.Td(ctx, "FinalScoreLine", map[string]any{"Score": rep.Overall.ScorePercentage}))
	p("%s", appI18n.Td(ctx, "AccuracyLine", map[string]any{"Accuracy": rep.Overall.AccuracyPercentage}))
	p("%s", appI18n.Td(ctx, "MarksLine", map[string]any{
		"Earned": fmt.Sprintf("%.2f", rep.MarkingSummary.TotalMarksEarned),
		"Max":    rep.MarkingSummary.MaximumPossibleMarks,
	}))
	p("%s", appI18n.Td(ctx, "AvgTimeLine", map[string]any{
		"Seconds": fmt.Sprintf("%.1f", rep.Overall.AverageTimePerQuestion),
	}))

	p("")
	p("%s", appI18n.T(ctx, "NegativeHeader"))
	p("%s", appI18n.Td(ctx, "PositiveMarksLine", map[string]any{
		"Marks": fmt.Sprintf("%.2f", rep.MarkingSummary.PositiveMarks),
	}))
	p("%s", appI18n.Td(ctx, "NegativeMarksLine", map[string]any{
		"Marks": fmt.Sprintf("%.2f", rep.MarkingSummary.NegativeMarks),
	}))
	p("%s", appI18n.Td(ctx, "NetImpactLine", map[string]any{
		"Impact": fmt.Sprintf("%.2f", rep.MarkingSummary.NetScoreImpact),
	}))

	if s := rep.Strategy; s != nil && s.Error == "" {
		p("")
		p("%s", appI18n.T(ctx, "StrategyHeader"))
		p("%s", appI18n.Td(ctx, "CurrentStrategyLine", map[string]any{
			"Strategy": humanize(string(s.Current.StrategyType)),
		}))
		p("%s", appI18n.Td(ctx, "ConservativeLine", map[string]any{
			"Marks":      fmt.Sprintf("%.2f", s.Alternatives.Conservative.Marks),
			"Difference": fmt.Sprintf("%+.2f", s.Alternatives.Conservative.Difference),
		}))
	}

	if g := rep.Grade; g != nil && g.Error == "" {
		p("")
		p("%s", appI18n.T(ctx, "ReadinessHeader"))
		p("%s", appI18n.Td(ctx, "ReadinessLevelLine", map[string]any{
			"Level": humanize(string(g.Readiness.Level)),
		}))
		p("%s", appI18n.Td(ctx, "PrepTimeLine", map[string]any{
			"Time": g.Readiness.EstimatedPreparationTime,
		}))
		p("%s", appI18n.Td(ctx, "ConfidenceLine", map[string]any{
			"Score": fmt.Sprintf("%.1f", g.Readiness.ConfidenceScore),
		}))
	}

	if weak := rep.ProblemAreas.WeakestTopics; len(weak) > 0 {
		p("")
		p("%s", appI18n.T(ctx, "FocusHeader"))
		for i, topic := range weak {
			p("%s", appI18n.Td(ctx, "FocusLine", map[string]any{
				"Index":    i + 1,
				"Topic":    humanize(topic.Topic),
				"Score":    fmt.Sprintf("%.1f", topic.ScorePercentage),
				"Accuracy": fmt.Sprintf("%.1f", topic.AccuracyPercentage),
			}))
		}
	}

	if r := rep.Recommendations; r != nil && r.Error == "" {
		p("")
		p("%s", appI18n.T(ctx, "NextStepsHeader"))
		p("%s", appI18n.Td(ctx, "NextDifficultyLine", map[string]any{
			"Level": strings.ToUpper(string(r.NextDifficultyLevel)),
		}))

		if len(r.RiskManagement) > 0 {
			p("")
			p("%s", appI18n.T(ctx, "RiskHeader"))
			for _, tip := range r.RiskManagement {
				p("- %s", tip)
			}
		}
	}

	if fb != "" {
		p("")
		p("%s", fb)
	}
}
