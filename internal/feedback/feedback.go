package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ajaysvasan/neurolearn/internal/analysis"

	openai "github.com/sashabaranov/go-openai"
)

// minUsableLength guards against degenerate completions. Anything shorter
// falls back to the templated summary.
const minUsableLength = 50

// Client wraps an OpenAI-compatible API client that turns an analysis report
// into coaching feedback.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new feedback client.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Generate asks the model for personalized coaching feedback on the report.
// Any failure degrades to the templated summary so the caller always gets
// usable text.
func (c *Client) Generate(ctx context.Context, rep *analysis.Report) string {
	if c == nil || c.api == nil {
		return Basic(rep)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: coachSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildCoachPrompt(rep)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		slog.Warn("feedback generation failed, using basic feedback", "error", err)
		return Basic(rep)
	}
	if len(resp.Choices) == 0 {
		slog.Warn("feedback model returned no choices, using basic feedback")
		return Basic(rep)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if len(text) < minUsableLength {
		slog.Warn("feedback response too short, using basic feedback", "length", len(text))
		return Basic(rep)
	}
	return text
}

const coachSystemPrompt = "You are an expert GATE exam coach. Provide encouraging, specific feedback based on the student's performance."

func buildCoachPrompt(rep *analysis.Report) string {
	var sb strings.Builder
	sb.WriteString("Performance Summary:\n")
	sb.WriteString(fmt.Sprintf("- Score: %g%% (with negative marking)\n", rep.Overall.ScorePercentage))
	sb.WriteString(fmt.Sprintf("- Accuracy: %g%%\n", rep.Overall.AccuracyPercentage))
	if rep.Grade != nil {
		sb.WriteString(fmt.Sprintf("- Grade: %s (%s)\n", rep.Grade.LetterGrade, rep.Grade.PerformanceLevel))
	}
	sb.WriteString(fmt.Sprintf("- Time Management: %.1fs per question\n", rep.Overall.AverageTimePerQuestion))

	if weak := weakTopics(rep, 2); len(weak) > 0 {
		sb.WriteString("\nWeak Areas: " + strings.Join(weak, ", ") + "\n")
	}

	sb.WriteString("\nProvide personalized, encouraging feedback in 150-200 words focusing on:\n")
	sb.WriteString("1. Positive reinforcement for strengths\n")
	sb.WriteString("2. Specific improvement areas\n")
	sb.WriteString("3. Strategy advice for negative marking\n")
	sb.WriteString("4. Motivational closing\n")

	return sb.String()
}

func weakTopics(rep *analysis.Report, n int) []string {
	var topics []string
	for _, w := range rep.ProblemAreas.WeakestTopics {
		topics = append(topics, w.Topic)
		if len(topics) == n {
			break
		}
	}
	return topics
}

// Basic builds a templated feedback summary without calling any model.
func Basic(rep *analysis.Report) string {
	if rep == nil {
		return "Test completed successfully. Continue practicing to improve your GATE preparation."
	}

	var parts []string

	score := rep.Overall.ScorePercentage
	switch {
	case score >= 75:
		parts = append(parts, "Excellent performance! You're demonstrating strong GATE readiness.")
	case score >= 60:
		parts = append(parts, "Good performance! You're on the right track with focused improvement needed.")
	case score >= 40:
		parts = append(parts, "Decent foundation, but significant preparation required for GATE success.")
	default:
		parts = append(parts, "Keep practicing! Focus on fundamental concept building and strategic preparation.")
	}

	if rep.Grade != nil && rep.Grade.LetterGrade != "" {
		parts = append(parts, fmt.Sprintf("Your overall grade is %s.", rep.Grade.LetterGrade))
	}

	if rep.Efficiency.NegativeImpact > 15 {
		parts = append(parts, "Focus on improving negative marking strategy - consider being more selective.")
	}

	if weak := weakTopics(rep, 1); len(weak) > 0 {
		parts = append(parts, fmt.Sprintf("Prioritize strengthening your %s knowledge.", weak[0]))
	}

	return strings.Join(parts, " ")
}
