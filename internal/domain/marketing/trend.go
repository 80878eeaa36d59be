package marketing

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// DefaultTimePeriod is used when a trend request names none
const DefaultTimePeriod = "last 3 months"

// MarketingTrend is a stored market-trend analysis for an industry
type MarketingTrend struct {
	shared.TenantAggregateRoot
	Industry   string
	Keywords   []string
	TimePeriod string
	// Analysis is the model's JSON document, stored verbatim.
	Analysis string
}

// NewMarketingTrend creates a trend record
func NewMarketingTrend(tenantID uuid.UUID, industry string, keywords []string, timePeriod, analysis string) (*MarketingTrend, error) {
	industry = strings.TrimSpace(industry)
	if industry == "" {
		return nil, shared.NewDomainError("INVALID_INDUSTRY", "Industry cannot be empty")
	}
	if len(industry) > 100 {
		return nil, shared.NewDomainError("INVALID_INDUSTRY", "Industry cannot exceed 100 characters")
	}
	if strings.TrimSpace(timePeriod) == "" {
		timePeriod = DefaultTimePeriod
	}
	kw := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			kw = append(kw, k)
		}
	}
	return &MarketingTrend{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Industry:            industry,
		Keywords:            kw,
		TimePeriod:          timePeriod,
		Analysis:            analysis,
	}, nil
}

// TrendRepository persists market-trend analyses
type TrendRepository interface {
	Create(ctx context.Context, trend *MarketingTrend) error
	// FindAll lists newest first, optionally narrowed to one industry (case-insensitive).
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter, industry string) ([]*MarketingTrend, int64, error)
}
