package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hyperflow/backend/internal/domain/insight"
)

const clientSystemPrompt = "You are an account manager at a digital agency. You read client requests and turn them into clear requirements and actionable tasks."

// AnalyzeClientInput extracts requirements, tone and suggested tasks from a
// client request. Platform messages, when present, are folded into the text.
func (a *Analyzer) AnalyzeClientInput(ctx context.Context, req ClientInputRequest) ClientInputAnalysis {
	text := strings.TrimSpace(req.Text)
	if len(req.PlatformData) > 0 {
		text = strings.TrimSpace(text + "\n\n" + joinMessages(req.PlatformData))
	}

	out, err := a.analyzeText(ctx, KindClientInput, text, req.History)
	if err != nil {
		a.fallback(KindClientInput, err)
		return fallbackClientInput()
	}
	a.observe(KindClientInput, false)
	return out
}

// AnalyzePlatformMessages reads a batch of messages from external channels
func (a *Analyzer) AnalyzePlatformMessages(ctx context.Context, messages []PlatformMessage) PlatformAnalysis {
	result := PlatformAnalysis{
		MessageCount:    len(messages),
		Platforms:       platformsOf(messages),
		KeyRequirements: []string{},
		Sentiment:       insight.SentimentNeutral,
		PriorityLevel:   insight.PriorityMedium,
		SuggestedTasks:  []insight.SuggestedTask{},
	}
	text := joinMessages(messages)

	summary, err := a.ask(ctx, KindPlatformMessages, clientSystemPrompt,
		"Summarize the following client messages in two or three sentences.\n\n"+text)
	if err != nil {
		a.fallback(KindPlatformMessages, err)
		result.Summary = "Unable to analyze platform messages."
		return result
	}
	analysis, err := a.analyzeText(ctx, KindPlatformMessages, text, nil)
	if err != nil {
		a.fallback(KindPlatformMessages, err)
		result.Summary = summary
		return result
	}
	a.observe(KindPlatformMessages, false)

	result.Summary = summary
	result.KeyRequirements = analysis.KeyRequirements
	result.Sentiment = analysis.Sentiment
	result.PriorityLevel = analysis.PriorityLevel
	result.SuggestedTasks = analysis.SuggestedTasks
	return result
}

// analyzeText scores the text locally and asks the model for requirements and tasks
func (a *Analyzer) analyzeText(ctx context.Context, kind, text string, history *ClientHistory) (ClientInputAnalysis, error) {
	sentiment := insight.Sentiment(text)
	out := ClientInputAnalysis{
		Sentiment:     sentiment,
		PriorityLevel: insight.Priority(text, sentiment),
	}

	reqText, err := a.ask(ctx, kind, clientSystemPrompt, requirementsPrompt(text, history))
	if err != nil {
		return out, err
	}
	out.KeyRequirements = nonNil(cleanList(reqText))

	taskText, err := a.ask(ctx, kind, clientSystemPrompt, suggestedTasksPrompt(text, out.KeyRequirements))
	if err != nil {
		return out, err
	}
	out.SuggestedTasks = nonNil(insight.ParseSuggestedTasks(taskText))
	return out, nil
}

func requirementsPrompt(text string, history *ClientHistory) string {
	var b strings.Builder
	b.WriteString("Extract the key requirements from this client request. Answer with one requirement per line and nothing else.\n\n")
	b.WriteString("Client request:\n")
	b.WriteString(text)
	if !history.IsEmpty() {
		b.WriteString("\n\nClient history:\n")
		for _, t := range history.Tasks {
			fmt.Fprintf(&b, "- task %q (%s): %s\n", t.Title, t.Status, t.Description)
		}
		for _, c := range history.Communications {
			fmt.Fprintf(&b, "- %s via %s: %s\n", c.CreatedAt.Format("2006-01-02"), c.Channel, c.Message)
		}
	}
	return b.String()
}

func suggestedTasksPrompt(text string, requirements []string) string {
	var b strings.Builder
	b.WriteString("Propose the tasks needed to deliver this request. Write one task per line as\n")
	b.WriteString("Title: description (N hours)\n\n")
	b.WriteString("Request:\n")
	b.WriteString(text)
	if len(requirements) > 0 {
		b.WriteString("\n\nRequirements:\n- ")
		b.WriteString(strings.Join(requirements, "\n- "))
	}
	return b.String()
}

func fallbackClientInput() ClientInputAnalysis {
	return ClientInputAnalysis{
		KeyRequirements: []string{},
		Sentiment:       insight.SentimentNeutral,
		PriorityLevel:   insight.PriorityMedium,
		SuggestedTasks:  []insight.SuggestedTask{},
	}
}

func joinMessages(messages []PlatformMessage) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", orDefault(m.Platform, "unknown"), orDefault(m.Sender, "client"), m.Content))
	}
	return strings.Join(lines, "\n")
}

func platformsOf(messages []PlatformMessage) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, m := range messages {
		p := strings.ToLower(strings.TrimSpace(m.Platform))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// cleanList turns a line-per-item answer into items without bullets
func cleanList(text string) []string {
	var out []string
	for _, line := range insight.SplitLines(text) {
		if item := insight.CleanListItem(line); item != "" {
			out = append(out, item)
		}
	}
	return out
}
