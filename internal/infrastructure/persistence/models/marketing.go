package models

import (
	"github.com/hyperflow/backend/internal/domain/marketing"
)

// MarketingTrendModel is the persistence model for a MarketingTrend.
type MarketingTrendModel struct {
	TenantAggregateModel
	Industry   string   `gorm:"type:varchar(100);not null;index"`
	Keywords   []string `gorm:"type:text;serializer:json"`
	TimePeriod string   `gorm:"type:varchar(50);not null"`
	Analysis   string   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (MarketingTrendModel) TableName() string {
	return "marketing_trends"
}

// ToDomain converts the persistence model to a domain MarketingTrend.
func (m *MarketingTrendModel) ToDomain() *marketing.MarketingTrend {
	t := &marketing.MarketingTrend{
		Industry:   m.Industry,
		Keywords:   m.Keywords,
		TimePeriod: m.TimePeriod,
		Analysis:   m.Analysis,
	}
	if t.Keywords == nil {
		t.Keywords = []string{}
	}
	t.TenantAggregateRoot = m.TenantRoot()
	return t
}

// MarketingTrendModelFromDomain creates a persistence model from a domain MarketingTrend.
func MarketingTrendModelFromDomain(t *marketing.MarketingTrend) *MarketingTrendModel {
	m := &MarketingTrendModel{
		Industry:   t.Industry,
		Keywords:   t.Keywords,
		TimePeriod: t.TimePeriod,
		Analysis:   t.Analysis,
	}
	m.SetTenantRoot(t.TenantAggregateRoot)
	return m
}
