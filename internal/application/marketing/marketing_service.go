package marketing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/domain/insight"
	"github.com/hyperflow/backend/internal/domain/marketing"
	"github.com/hyperflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	copywriterPrompt = "You are a professional marketing copywriter specialized in email marketing."
	analystPrompt    = "You are a market research analyst specializing in identifying industry trends and providing marketing insights. Always respond with valid JSON."
)

// LLM is the model access the marketing flows need. Both calls return
// assistant.ErrAIUnavailable when the model cannot answer.
type LLM interface {
	Complete(ctx context.Context, kind, system, prompt string) (string, error)
	CompleteJSON(ctx context.Context, kind, system, prompt string, out any) error
}

// CampaignAnalyzer covers the analyses that fall back instead of failing
type CampaignAnalyzer interface {
	AnalyzeMeetingTranscript(ctx context.Context, transcript, meetingType string) assistant.MeetingAnalysis
	GenerateMarketingInsights(ctx context.Context, campaignData any, segment string) assistant.MarketingInsights
}

// MarketingService drafts campaign material and tracks market trends
type MarketingService struct {
	llm       LLM
	analyzer  CampaignAnalyzer
	trendRepo marketing.TrendRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewMarketingService creates a new marketing service
func NewMarketingService(llm LLM, analyzer CampaignAnalyzer, trendRepo marketing.TrendRepository, logger *zap.Logger) *MarketingService {
	return &MarketingService{llm: llm, analyzer: analyzer, trendRepo: trendRepo, logger: logger, now: time.Now}
}

// GenerateEmailCopy drafts a marketing email and splits off its subject line
func (s *MarketingService) GenerateEmailCopy(ctx context.Context, input EmailCopyInput) (*EmailCopy, error) {
	if strings.TrimSpace(input.CampaignType) == "" || strings.TrimSpace(input.TargetAudience) == "" {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "campaign_type and target_audience are required")
	}
	if strings.TrimSpace(input.Tone) == "" {
		input.Tone = DefaultTone
	}

	text, err := s.llm.Complete(ctx, assistant.KindEmailCopy, copywriterPrompt, emailPrompt(input))
	if err != nil {
		return nil, err
	}
	subject, body := insight.SplitEmailCopy(text)
	return &EmailCopy{
		SubjectLine:    subject,
		EmailBody:      body,
		CampaignType:   input.CampaignType,
		TargetAudience: input.TargetAudience,
		Tone:           input.Tone,
	}, nil
}

// AnalyzeMarketTrends asks the model about an industry and stores the result
func (s *MarketingService) AnalyzeMarketTrends(ctx context.Context, input TrendInput) (*TrendAnalysis, error) {
	if strings.TrimSpace(input.TimePeriod) == "" {
		input.TimePeriod = marketing.DefaultTimePeriod
	}
	// validate before spending a model call
	trend, err := marketing.NewMarketingTrend(input.TenantID, input.Industry, input.Keywords, input.TimePeriod, "")
	if err != nil {
		return nil, err
	}
	if input.UserID != uuid.Nil {
		trend.SetCreatedBy(input.UserID)
	}

	var analysis TrendAnalysis
	if err := s.llm.CompleteJSON(ctx, assistant.KindMarketTrends, analystPrompt, trendsPrompt(trend), &analysis); err != nil {
		return nil, err
	}
	analysis.normalize()
	analysis.Metadata = TrendMetadata{
		TrendID:     trend.ID,
		Industry:    trend.Industry,
		Keywords:    trend.Keywords,
		TimePeriod:  trend.TimePeriod,
		GeneratedAt: s.now().UTC(),
	}

	raw, err := json.Marshal(analysis)
	if err != nil {
		return nil, err
	}
	trend.Analysis = string(raw)
	if err := s.trendRepo.Create(ctx, trend); err != nil {
		s.logger.Error("Failed to store market trend", zap.String("industry", trend.Industry), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Market trends analyzed",
		zap.String("trend_id", trend.ID.String()),
		zap.String("industry", trend.Industry),
		zap.Int("keywords", len(trend.Keywords)),
	)
	return &analysis, nil
}

// ListTrends returns stored analyses newest first
func (s *MarketingService) ListTrends(ctx context.Context, tenantID uuid.UUID, filter shared.Filter, industry string) (*shared.Paginated[TrendDTO], error) {
	filter = filter.Normalize()
	trends, total, err := s.trendRepo.FindAll(ctx, tenantID, filter, strings.TrimSpace(industry))
	if err != nil {
		return nil, err
	}
	items := make([]TrendDTO, 0, len(trends))
	for _, t := range trends {
		items = append(items, ToTrendDTO(t))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// AnalyzeMeeting extracts action items from a meeting transcript
func (s *MarketingService) AnalyzeMeeting(ctx context.Context, transcript, meetingType string) (*assistant.MeetingAnalysis, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "transcript is required")
	}
	result := s.analyzer.AnalyzeMeetingTranscript(ctx, transcript, meetingType)
	return &result, nil
}

// CampaignInsights reviews campaign performance for a market segment
func (s *MarketingService) CampaignInsights(ctx context.Context, campaignData map[string]any, segment string) (*assistant.MarketingInsights, error) {
	if len(campaignData) == 0 {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "campaign_data is required")
	}
	result := s.analyzer.GenerateMarketingInsights(ctx, campaignData, segment)
	return &result, nil
}

func (a *TrendAnalysis) normalize() {
	if a.EmergingTrends == nil {
		a.EmergingTrends = []string{}
	}
	if a.Opportunities == nil {
		a.Opportunities = []Topic{}
	}
	if a.Challenges == nil {
		a.Challenges = []Topic{}
	}
	if a.Recommendations == nil {
		a.Recommendations = []string{}
	}
}

func emailPrompt(input EmailCopyInput) string {
	var points strings.Builder
	for _, p := range input.KeyPoints {
		if p = strings.TrimSpace(p); p != "" {
			fmt.Fprintf(&points, "- %s\n", p)
		}
	}
	return fmt.Sprintf(`Generate a marketing email with:

Campaign Type: %s
Target Audience: %s
Tone: %s

Key Points to Include:
%s
Format the response with:
1. Subject line
2. Email body with proper greeting and sign-off
3. Call-to-action suggestion`, input.CampaignType, input.TargetAudience, input.Tone, points.String())
}

func trendsPrompt(t *marketing.MarketingTrend) string {
	return fmt.Sprintf(`Analyze current market trends for:

Industry: %s
Key Focus Areas: %s
Time Period: %s

Provide:
1. Top 5 emerging trends in this industry
2. 3 potential opportunities for marketing campaigns
3. 2 potential threats or challenges
4. Recommendations for marketing strategy

Format as JSON with these keys:
- emerging_trends (array)
- opportunities (array of objects with "title" and "description")
- challenges (array of objects with "title" and "description")
- recommendations (array)`, t.Industry, strings.Join(t.Keywords, ", "), t.TimePeriod)
}
