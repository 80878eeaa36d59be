package marketing

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/marketing"
)

// DefaultTone is used when an email copy request names none
const DefaultTone = "professional"

// EmailCopyInput describes the email to draft
type EmailCopyInput struct {
	CampaignType   string
	TargetAudience string
	KeyPoints      []string
	Tone           string
}

// EmailCopy is a drafted marketing email
type EmailCopy struct {
	SubjectLine    string `json:"subject_line"`
	EmailBody      string `json:"email_body"`
	CampaignType   string `json:"campaign_type"`
	TargetAudience string `json:"target_audience"`
	Tone           string `json:"tone"`
}

// TrendInput asks for a market-trend analysis
type TrendInput struct {
	TenantID   uuid.UUID
	UserID     uuid.UUID
	Industry   string
	Keywords   []string
	TimePeriod string
}

// Topic is a titled opportunity or challenge
type Topic struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TrendMetadata records what a trend analysis was generated for
type TrendMetadata struct {
	TrendID     uuid.UUID `json:"trend_id"`
	Industry    string    `json:"industry"`
	Keywords    []string  `json:"keywords"`
	TimePeriod  string    `json:"time_period"`
	GeneratedAt time.Time `json:"generated_at"`
}

// TrendAnalysis is the model's reading of an industry
type TrendAnalysis struct {
	EmergingTrends  []string      `json:"emerging_trends"`
	Opportunities   []Topic       `json:"opportunities"`
	Challenges      []Topic       `json:"challenges"`
	Recommendations []string      `json:"recommendations"`
	Metadata        TrendMetadata `json:"metadata"`
}

// TrendDTO is a stored analysis as listed by the API
type TrendDTO struct {
	ID         uuid.UUID       `json:"id"`
	Industry   string          `json:"industry"`
	Keywords   []string        `json:"keywords"`
	TimePeriod string          `json:"time_period"`
	Analysis   json.RawMessage `json:"analysis"`
	CreatedBy  *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToTrendDTO converts a stored trend
func ToTrendDTO(t *marketing.MarketingTrend) TrendDTO {
	analysis := json.RawMessage(t.Analysis)
	if !json.Valid(analysis) {
		analysis = json.RawMessage("null")
	}
	return TrendDTO{
		ID:         t.ID,
		Industry:   t.Industry,
		Keywords:   t.Keywords,
		TimePeriod: t.TimePeriod,
		Analysis:   analysis,
		CreatedBy:  t.CreatedBy,
		CreatedAt:  t.CreatedAt,
	}
}
