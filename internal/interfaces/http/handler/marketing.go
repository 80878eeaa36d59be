package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/application/marketing"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
)

// MarketingService drafts copy and analyzes markets and campaigns
type MarketingService interface {
	GenerateEmailCopy(ctx context.Context, input marketing.EmailCopyInput) (*marketing.EmailCopy, error)
	AnalyzeMarketTrends(ctx context.Context, input marketing.TrendInput) (*marketing.TrendAnalysis, error)
	ListTrends(ctx context.Context, tenantID uuid.UUID, filter shared.Filter, industry string) (*shared.Paginated[marketing.TrendDTO], error)
	AnalyzeMeeting(ctx context.Context, transcript, meetingType string) (*assistant.MeetingAnalysis, error)
	CampaignInsights(ctx context.Context, campaignData map[string]any, segment string) (*assistant.MarketingInsights, error)
}

// EmailCopyRequest is the body of POST /marketing/generate-email-copy
type EmailCopyRequest struct {
	CampaignType   string   `json:"campaign_type" binding:"required,max=100"`
	TargetAudience string   `json:"target_audience" binding:"required,max=255"`
	KeyPoints      []string `json:"key_points" binding:"max=20"`
	Tone           string   `json:"tone" binding:"max=50" example:"professional"`
}

// MarketTrendRequest is the body of POST /marketing/analyze-market-trends
type MarketTrendRequest struct {
	Industry   string   `json:"industry" binding:"required,max=100"`
	Keywords   []string `json:"keywords" binding:"max=20"`
	TimePeriod string   `json:"time_period" binding:"max=50" example:"last 3 months"`
}

// TrendListQuery holds the filters of GET /marketing/trends
type TrendListQuery struct {
	dto.ListRequest
	Industry string `form:"industry"`
}

// MeetingRequest is the body of the meeting transcript endpoints
type MeetingRequest struct {
	Transcript  string `json:"transcript" binding:"required"`
	MeetingType string `json:"meeting_type" binding:"max=50" example:"client"`
}

// CampaignInsightsRequest is the body of the campaign insight endpoints
type CampaignInsightsRequest struct {
	CampaignData  map[string]any `json:"campaign_data" binding:"required"`
	MarketSegment string         `json:"market_segment" binding:"max=100"`
}

// MarketingHandler serves the /marketing endpoints
type MarketingHandler struct {
	BaseHandler
	marketing MarketingService
}

// NewMarketingHandler creates a new marketing handler
func NewMarketingHandler(marketing MarketingService) *MarketingHandler {
	return &MarketingHandler{marketing: marketing}
}

// GenerateEmailCopy godoc
// @ID           generateEmailCopy
// @Summary      Draft a campaign email
// @Tags         marketing
// @Accept       json
// @Produce      json
// @Param        request body EmailCopyRequest true "Campaign"
// @Success      200 {object} APIResponse[marketing.EmailCopy]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marketing/generate-email-copy [post]
func (h *MarketingHandler) GenerateEmailCopy(c *gin.Context) {
	var req EmailCopyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	draft, err := h.marketing.GenerateEmailCopy(c.Request.Context(), marketing.EmailCopyInput{
		CampaignType:   req.CampaignType,
		TargetAudience: req.TargetAudience,
		KeyPoints:      req.KeyPoints,
		Tone:           req.Tone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, draft)
}

// AnalyzeMarketTrends godoc
// @ID           analyzeMarketTrends
// @Summary      Analyze an industry
// @Description  The analysis is stored and listed by GET /marketing/trends
// @Tags         marketing
// @Accept       json
// @Produce      json
// @Param        request body MarketTrendRequest true "Industry"
// @Success      200 {object} APIResponse[marketing.TrendAnalysis]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marketing/analyze-market-trends [post]
func (h *MarketingHandler) AnalyzeMarketTrends(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req MarketTrendRequest
	if !h.bindJSON(c, &req) {
		return
	}

	analysis, err := h.marketing.AnalyzeMarketTrends(c.Request.Context(), marketing.TrendInput{
		TenantID:   tenantID,
		UserID:     userID,
		Industry:   req.Industry,
		Keywords:   req.Keywords,
		TimePeriod: req.TimePeriod,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, analysis)
}

// ListTrends godoc
// @ID           listMarketTrends
// @Summary      Stored market trend analyses
// @Tags         marketing
// @Produce      json
// @Param        industry query string false "Industry"
// @Success      200 {object} APIResponse[[]marketing.TrendDTO]
// @Security     BearerAuth
// @Router       /marketing/trends [get]
func (h *MarketingHandler) ListTrends(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q TrendListQuery
	if !h.bindQuery(c, &q) {
		return
	}

	page, err := h.marketing.ListTrends(c.Request.Context(), tenantID, listFilter(q.ListRequest), q.Industry)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// AnalyzeMeeting godoc
// @ID           analyzeMeeting
// @Summary      Summarize a meeting
// @Tags         marketing
// @Accept       json
// @Produce      json
// @Param        request body MeetingRequest true "Transcript"
// @Success      200 {object} APIResponse[assistant.MeetingAnalysis]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marketing/analyze-meeting [post]
func (h *MarketingHandler) AnalyzeMeeting(c *gin.Context) {
	var req MeetingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	analysis, err := h.marketing.AnalyzeMeeting(c.Request.Context(), req.Transcript, req.MeetingType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, analysis)
}

// CampaignInsights godoc
// @ID           campaignInsights
// @Summary      Review campaign performance
// @Tags         marketing
// @Accept       json
// @Produce      json
// @Param        request body CampaignInsightsRequest true "Campaign data"
// @Success      200 {object} APIResponse[assistant.MarketingInsights]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marketing/campaign-insights [post]
func (h *MarketingHandler) CampaignInsights(c *gin.Context) {
	var req CampaignInsightsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	insights, err := h.marketing.CampaignInsights(c.Request.Context(), req.CampaignData, req.MarketSegment)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, insights)
}
