package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/marketing"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/models"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormTrendRepository implements marketing.TrendRepository using GORM
type GormTrendRepository struct {
	db *gorm.DB
}

// NewGormTrendRepository creates a new GormTrendRepository
func NewGormTrendRepository(db *gorm.DB) *GormTrendRepository {
	return &GormTrendRepository{db: db}
}

// Create inserts a trend analysis
func (r *GormTrendRepository) Create(ctx context.Context, t *marketing.MarketingTrend) error {
	return r.db.WithContext(ctx).Create(models.MarketingTrendModelFromDomain(t)).Error
}

// FindAll lists trend analyses newest first
func (r *GormTrendRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter, industry string) ([]*marketing.MarketingTrend, int64, error) {
	var rows []*models.MarketingTrendModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.MarketingTrendModel{}).Scopes(tenant.Scope(tenantID))
	if industry = strings.TrimSpace(industry); industry != "" {
		query = query.Where("LOWER(industry) = ?", strings.ToLower(industry))
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(query, filter, trendSort).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*marketing.MarketingTrend, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, total, nil
}

var _ marketing.TrendRepository = (*GormTrendRepository)(nil)
