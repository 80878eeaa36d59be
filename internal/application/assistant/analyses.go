package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperflow/backend/internal/domain/insight"
)

const (
	projectSystemPrompt   = "You are an experienced project manager at a digital agency. Answer only with JSON."
	meetingSystemPrompt   = "You analyze meeting transcripts for a digital agency. Answer only with JSON."
	marketingSystemPrompt = "You are a marketing strategist. Answer only with JSON."
)

// PredictTaskTimeline estimates the effort of a task. The fallback is the
// lookup-table estimate for the guessed task type.
func (a *Analyzer) PredictTaskTimeline(ctx context.Context, req TimelineRequest) TaskTimeline {
	var b strings.Builder
	b.WriteString("Estimate the effort of this task.\n\nTask:\n")
	b.WriteString(req.TaskDescription)
	if len(req.HistoricalData) > 0 {
		b.WriteString("\n\nSimilar finished tasks:\n")
		b.WriteString(prettyJSON(req.HistoricalData))
	}
	b.WriteString("\n\nReturn an object with estimated_time (hours, number), task_complexity (simple, moderate or complex), recommended_skills (list of strings) and potential_challenges (list of strings).")

	var out TaskTimeline
	if err := a.askJSON(ctx, KindTaskTimeline, projectSystemPrompt, b.String(), &out); err != nil || out.EstimatedTime <= 0 {
		if err == nil {
			err = fmt.Errorf("non-positive estimate %v", out.EstimatedTime)
		}
		a.fallback(KindTaskTimeline, err)
		return FallbackTimeline(req.TaskDescription)
	}
	a.observe(KindTaskTimeline, false)
	out.TaskComplexity = orDefault(out.TaskComplexity, "moderate")
	out.RecommendedSkills = nonNil(out.RecommendedSkills)
	out.PotentialChallenges = nonNil(out.PotentialChallenges)
	return out
}

// FallbackTimeline is the offline estimate of a task description
func FallbackTimeline(description string) TaskTimeline {
	taskType := insight.GuessTaskType(description)
	est := insight.EstimateTaskTime(taskType, "moderate", "mid")
	return TaskTimeline{
		EstimatedTime:       est.EstimatedHours,
		TaskComplexity:      est.Complexity,
		RecommendedSkills:   []string{taskType},
		PotentialChallenges: []string{"No specific challenges identified"},
	}
}

// AnalyzeMeetingTranscript extracts a summary and follow-ups from a transcript
func (a *Analyzer) AnalyzeMeetingTranscript(ctx context.Context, transcript, meetingType string) MeetingAnalysis {
	prompt := fmt.Sprintf("Analyze this %s meeting transcript.\n\n%s\n\n"+
		"Return an object with summary (string), action_items (list of {task, assignee}), key_insights (list of strings) "+
		"and sentiment_analysis ({sentiment: positive, negative or neutral, confidence between 0 and 1}).",
		orDefault(meetingType, "general"), transcript)

	var out MeetingAnalysis
	if err := a.askJSON(ctx, KindMeetingTranscript, meetingSystemPrompt, prompt, &out); err != nil {
		a.fallback(KindMeetingTranscript, err)
		return MeetingAnalysis{
			Summary:           "Error analyzing transcript.",
			ActionItems:       []ActionItem{},
			KeyInsights:       []string{},
			SentimentAnalysis: SentimentReading{Sentiment: insight.SentimentNeutral, Confidence: 0.5},
		}
	}
	a.observe(KindMeetingTranscript, false)
	out.ActionItems = nonNil(out.ActionItems)
	out.KeyInsights = nonNil(out.KeyInsights)
	out.SentimentAnalysis.Sentiment = orDefault(out.SentimentAnalysis.Sentiment, insight.SentimentNeutral)
	return out
}

// GenerateMarketingInsights evaluates campaign data for a market segment
func (a *Analyzer) GenerateMarketingInsights(ctx context.Context, campaignData any, segment string) MarketingInsights {
	prompt := fmt.Sprintf("Evaluate these campaign results for the %s segment.\n\n%s\n\n"+
		"Return an object with performance_analysis ({strengths, weaknesses} as lists of strings), "+
		"trend_identification (list of strings) and optimization_suggestions (list of {area, suggestion}).",
		orDefault(segment, "general"), prettyJSON(campaignData))

	var out MarketingInsights
	if err := a.askJSON(ctx, KindMarketingInsights, marketingSystemPrompt, prompt, &out); err != nil {
		a.fallback(KindMarketingInsights, err)
		return MarketingInsights{
			PerformanceAnalysis:     PerformanceAnalysis{Strengths: []string{}, Weaknesses: []string{}},
			TrendIdentification:     []string{"No trends identified"},
			OptimizationSuggestions: []Suggestion{},
		}
	}
	a.observe(KindMarketingInsights, false)
	out.PerformanceAnalysis.Strengths = nonNil(out.PerformanceAnalysis.Strengths)
	out.PerformanceAnalysis.Weaknesses = nonNil(out.PerformanceAnalysis.Weaknesses)
	out.TrendIdentification = nonNil(out.TrendIdentification)
	out.OptimizationSuggestions = nonNil(out.OptimizationSuggestions)
	return out
}
