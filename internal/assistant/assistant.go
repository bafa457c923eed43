package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/T-Man-05/diacare-sub000/internal/services"
)

const modelName = "gemini-1.5-flash"

// Assistant answers user questions with a read-only snapshot of their health
// data as context. It holds only the aggregation service and can never write.
type Assistant struct {
	client     *genai.Client
	aggregator *services.AggregationService
}

// New creates the assistant. The caller should only construct it when an API
// key is configured.
func New(ctx context.Context, apiKey string, aggregator *services.AggregationService) (*Assistant, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Assistant{client: client, aggregator: aggregator}, nil
}

// Close releases the underlying client.
func (a *Assistant) Close() error {
	return a.client.Close()
}

// Ask sends the user's question to the model together with their current
// health context and returns the answer text.
func (a *Assistant) Ask(ctx context.Context, userID uint, question string) (string, error) {
	snapshot, err := a.aggregator.BuildAssistantContext(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to build assistant context: %w", err)
	}

	model := a.client.GenerativeModel(modelName)
	prompt := renderPrompt(snapshot, question)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("model returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	answer := strings.TrimSpace(b.String())
	if answer == "" {
		return "", fmt.Errorf("model returned no text")
	}
	return answer, nil
}

func renderPrompt(snapshot *services.AssistantContext, question string) string {
	var b strings.Builder

	b.WriteString("You are a diabetes self-management assistant. Answer briefly and practically. ")
	b.WriteString("You are not a doctor and must advise consulting one for medical decisions.\n\n")
	b.WriteString("User context:\n")

	if snapshot.FullName != "" {
		fmt.Fprintf(&b, "- Name: %s\n", snapshot.FullName)
	}
	if snapshot.DiabeticType != "" {
		fmt.Fprintf(&b, "- Diabetes type: %s, treatment: %s\n", snapshot.DiabeticType, snapshot.TreatmentType)
	}
	fmt.Fprintf(&b, "- Target glucose range: %d-%d mg/dL (display unit %s)\n",
		snapshot.MinGlucose, snapshot.MaxGlucose, snapshot.Unit)

	if snapshot.LatestReading != nil {
		fmt.Fprintf(&b, "- Latest reading: %s (%s, %s) at %s\n",
			snapshot.LatestReading.Display, snapshot.LatestReading.ReadingType,
			snapshot.LatestReading.Range, snapshot.LatestReading.MeasuredAt.Format("2006-01-02 15:04"))
	} else {
		b.WriteString("- No glucose readings recorded yet\n")
	}

	for _, r := range snapshot.RecentReadings {
		fmt.Fprintf(&b, "- Reading on %s (%s): %.1f %s\n", r.Day, r.ReadingType, r.Value, snapshot.Unit)
	}
	for _, card := range snapshot.HealthCards {
		fmt.Fprintf(&b, "- %s: %g %s\n", card.Type, card.Value, card.Unit)
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
