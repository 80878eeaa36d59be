package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/application/hr"
	"github.com/hyperflow/backend/internal/application/work"
	"github.com/hyperflow/backend/internal/domain/insight"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// defaultPerformanceDays is the window of generate-performance-insights
const defaultPerformanceDays = 30

// Analyzer is the AI assistant. Its operations never fail: they degrade to
// fixed fallback payloads.
type Analyzer interface {
	AnalyzeClientInput(ctx context.Context, req assistant.ClientInputRequest) assistant.ClientInputAnalysis
	AnalyzePlatformMessages(ctx context.Context, messages []assistant.PlatformMessage) assistant.PlatformAnalysis
	AnalyzeMeetingTranscript(ctx context.Context, transcript, meetingType string) assistant.MeetingAnalysis
	GenerateMarketingInsights(ctx context.Context, campaignData any, segment string) assistant.MarketingInsights
	AnalyzeFinancialData(ctx context.Context, entries []assistant.FinancialEntry) assistant.FinancialAnalysis
	AnalyzeEmployeePerformance(ctx context.Context, req assistant.EmployeePerformanceRequest) assistant.EmployeePerformance
}

// TimelinePredictor estimates task effort and stores it on the task
type TimelinePredictor interface {
	PredictTimeline(ctx context.Context, input work.PredictTimelineInput) (*work.TimelinePrediction, error)
}

// PerformanceReviewer reviews an employee over a window
type PerformanceReviewer interface {
	AnalyzePerformance(ctx context.Context, tenantID, id uuid.UUID, r shared.DateRange) (*hr.PerformanceReview, error)
}

// ClientInputRequest is the body of POST /ai/analyze-client-input
type ClientInputRequest struct {
	Text          string                      `json:"text"`
	ClientHistory *assistant.ClientHistory    `json:"client_history"`
	PlatformData  []assistant.PlatformMessage `json:"platform_data"`
}

// PlatformMessagesRequest is the body of POST /ai/analyze-platform-messages
type PlatformMessagesRequest struct {
	Messages   []assistant.PlatformMessage `json:"messages"`
	ClientName string                      `json:"client_name"`
}

// PredictTimelineRequest is the body of POST /ai/predict-task-timeline
type PredictTimelineRequest struct {
	TaskDescription string                   `json:"task_description"`
	TaskID          *uuid.UUID               `json:"task_id"`
	HistoricalData  []assistant.HistoryEntry `json:"historical_data"`
}

// FinancialRecordInput is one record of POST /ai/analyze-financial-data
type FinancialRecordInput struct {
	RecordType  string          `json:"record_type" binding:"required,oneof=income expense"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"number"`
	RecordDate  string          `json:"record_date" example:"2026-01-15"`
	Description string          `json:"description"`
}

// FinancialDataRequest is the body of POST /ai/analyze-financial-data
type FinancialDataRequest struct {
	FinancialRecords []FinancialRecordInput `json:"financial_records" binding:"dive"`
}

// AttendanceInput is one attendance row of POST /ai/analyze-employee-performance
type AttendanceInput struct {
	LoginTime  *time.Time `json:"login_time"`
	LogoutTime *time.Time `json:"logout_time"`
}

// TaskInput is one task row of POST /ai/analyze-employee-performance
type TaskInput struct {
	Status        string   `json:"status"`
	EstimatedTime *float64 `json:"estimated_time"`
	ActualTime    *float64 `json:"actual_time"`
}

// EmployeePerformanceRequest is the body of POST /ai/analyze-employee-performance
type EmployeePerformanceRequest struct {
	EmployeeName   string            `json:"employee_name"`
	AttendanceData []AttendanceInput `json:"attendance_data"`
	TaskData       []TaskInput       `json:"task_data"`
}

// SuggestedTasksRequest is the body of POST /ai/generate-suggested-tasks
type SuggestedTasksRequest struct {
	ClientRequirements string                      `json:"client_requirements"`
	ClientID           *uuid.UUID                  `json:"client_id"`
	PlatformData       []assistant.PlatformMessage `json:"platform_data"`
}

// PerformanceInsightsRequest is the body of POST /ai/generate-performance-insights
type PerformanceInsightsRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
}

// EstimateTaskTimeRequest is the body of POST /ai/estimate-task-time
type EstimateTaskTimeRequest struct {
	TaskType   string `json:"task_type" example:"design"`
	Complexity string `json:"complexity" example:"moderate"`
	Experience string `json:"experience" example:"mid"`
}

// AIHandler serves the /ai endpoints
type AIHandler struct {
	BaseHandler
	analyzer  Analyzer
	timelines TimelinePredictor
	reviewer  PerformanceReviewer
	loc       *time.Location
}

// NewAIHandler creates a new AI assistant handler
func NewAIHandler(analyzer Analyzer, timelines TimelinePredictor, reviewer PerformanceReviewer, loc *time.Location) *AIHandler {
	return &AIHandler{analyzer: analyzer, timelines: timelines, reviewer: reviewer, loc: loc}
}

func (h *AIHandler) required(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationRequired, message)
}

// AnalyzeClientInput godoc
// @ID           aiAnalyzeClientInput
// @Summary      Extract requirements and tasks from client input
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body ClientInputRequest true "Text or platform messages"
// @Success      200 {object} APIResponse[assistant.ClientInputAnalysis]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ai/analyze-client-input [post]
func (h *AIHandler) AnalyzeClientInput(c *gin.Context) {
	var req ClientInputRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.Text == "" && len(req.PlatformData) == 0 {
		h.required(c, "Either text or platform_data is required")
		return
	}

	h.Success(c, h.analyzer.AnalyzeClientInput(c.Request.Context(), assistant.ClientInputRequest{
		Text:         req.Text,
		History:      req.ClientHistory,
		PlatformData: req.PlatformData,
	}))
}

// AnalyzePlatformMessages godoc
// @ID           aiAnalyzePlatformMessages
// @Summary      Analyze messages from chat platforms
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body PlatformMessagesRequest true "Messages"
// @Success      200 {object} APIResponse[assistant.PlatformAnalysis]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ai/analyze-platform-messages [post]
func (h *AIHandler) AnalyzePlatformMessages(c *gin.Context) {
	var req PlatformMessagesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if len(req.Messages) == 0 {
		h.required(c, "messages are required")
		return
	}

	h.Success(c, h.analyzer.AnalyzePlatformMessages(c.Request.Context(), req.Messages))
}

// PredictTaskTimeline godoc
// @ID           aiPredictTaskTimeline
// @Summary      Estimate the effort of a task
// @Description  With task_id the estimate is stored as an insight on the task
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body PredictTimelineRequest true "Task description"
// @Success      200 {object} APIResponse[work.TimelinePrediction]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ai/predict-task-timeline [post]
func (h *AIHandler) PredictTaskTimeline(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req PredictTimelineRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.TaskDescription == "" {
		h.required(c, "task_description is required")
		return
	}

	prediction, err := h.timelines.PredictTimeline(c.Request.Context(), work.PredictTimelineInput{
		TenantID:        tenantID,
		TaskID:          req.TaskID,
		TaskDescription: req.TaskDescription,
		HistoricalData:  req.HistoricalData,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prediction)
}

// AnalyzeMeetingTranscript godoc
// @ID           aiAnalyzeMeetingTranscript
// @Summary      Summarize a meeting transcript
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body MeetingRequest true "Transcript"
// @Success      200 {object} APIResponse[assistant.MeetingAnalysis]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ai/analyze-meeting-transcript [post]
func (h *AIHandler) AnalyzeMeetingTranscript(c *gin.Context) {
	var req MeetingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.MeetingType == "" {
		req.MeetingType = "client"
	}

	h.Success(c, h.analyzer.AnalyzeMeetingTranscript(c.Request.Context(), req.Transcript, req.MeetingType))
}

// GenerateMarketingInsights godoc
// @ID           aiGenerateMarketingInsights
// @Summary      Review campaign performance
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body CampaignInsightsRequest true "Campaign data"
// @Success      200 {object} APIResponse[assistant.MarketingInsights]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ai/generate-marketing-insights [post]
func (h *AIHandler) GenerateMarketingInsights(c *gin.Context) {
	var req CampaignInsightsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if len(req.CampaignData) == 0 {
		h.required(c, "campaign_data is required")
		return
	}

	h.Success(c, h.analyzer.GenerateMarketingInsights(c.Request.Context(), req.CampaignData, req.MarketSegment))
}

// AnalyzeFinancialData godoc
// @ID           aiAnalyzeFinancialData
// @Summary      Analyze financial records
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body FinancialDataRequest true "Records"
// @Success      200 {object} APIResponse[assistant.FinancialAnalysis]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ai/analyze-financial-data [post]
func (h *AIHandler) AnalyzeFinancialData(c *gin.Context) {
	var req FinancialDataRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if len(req.FinancialRecords) == 0 {
		h.required(c, "financial_records are required")
		return
	}

	entries := make([]assistant.FinancialEntry, 0, len(req.FinancialRecords))
	for _, r := range req.FinancialRecords {
		date, err := parseTimestamp(r.RecordDate, "record_date")
		if err != nil {
			h.HandleError(c, err)
			return
		}
		entries = append(entries, assistant.FinancialEntry{
			RecordType:  r.RecordType,
			Amount:      r.Amount,
			RecordDate:  date,
			Description: r.Description,
		})
	}

	h.Success(c, h.analyzer.AnalyzeFinancialData(c.Request.Context(), entries))
}

// parseTimestamp accepts a date or an RFC 3339 timestamp
func parseTimestamp(value, field string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	d, err := parseDate(value, field)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, shared.NewDomainError(shared.ErrInvalidInput.Code, field+" is required")
	}
	return *d, nil
}

// AnalyzeEmployeePerformance godoc
// @ID           aiAnalyzeEmployeePerformance
// @Summary      Review attendance and task data
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body EmployeePerformanceRequest true "Attendance and tasks"
// @Success      200 {object} APIResponse[assistant.EmployeePerformance]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ai/analyze-employee-performance [post]
func (h *AIHandler) AnalyzeEmployeePerformance(c *gin.Context) {
	var req EmployeePerformanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if len(req.AttendanceData) == 0 && len(req.TaskData) == 0 {
		h.required(c, "Either attendance_data or task_data is required")
		return
	}

	perf := assistant.EmployeePerformanceRequest{
		EmployeeName: req.EmployeeName,
		Attendance:   make([]insight.AttendanceSample, 0, len(req.AttendanceData)),
		Tasks:        make([]insight.TaskSample, 0, len(req.TaskData)),
	}
	for _, a := range req.AttendanceData {
		perf.Attendance = append(perf.Attendance, insight.AttendanceSample{LoginTime: a.LoginTime, LogoutTime: a.LogoutTime})
	}
	for _, t := range req.TaskData {
		perf.Tasks = append(perf.Tasks, insight.TaskSample{Status: t.Status, EstimatedTime: t.EstimatedTime, ActualTime: t.ActualTime})
	}

	h.Success(c, h.analyzer.AnalyzeEmployeePerformance(c.Request.Context(), perf))
}

// GenerateSuggestedTasks godoc
// @ID           aiGenerateSuggestedTasks
// @Summary      Suggest tasks for client requirements
// @Description  Platform messages take precedence over client_requirements
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body SuggestedTasksRequest true "Requirements or platform messages"
// @Success      200 {object} APIResponse[assistant.ClientInputAnalysis]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ai/generate-suggested-tasks [post]
func (h *AIHandler) GenerateSuggestedTasks(c *gin.Context) {
	var req SuggestedTasksRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.ClientRequirements == "" && len(req.PlatformData) == 0 {
		h.required(c, "Either client_requirements or platform_data is required")
		return
	}

	if len(req.PlatformData) > 0 {
		h.Success(c, h.analyzer.AnalyzePlatformMessages(c.Request.Context(), req.PlatformData))
		return
	}
	h.Success(c, h.analyzer.AnalyzeClientInput(c.Request.Context(), assistant.ClientInputRequest{
		Text: req.ClientRequirements,
	}))
}

// GeneratePerformanceInsights godoc
// @ID           aiGeneratePerformanceInsights
// @Summary      Performance review of an employee over the last 30 days
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body PerformanceInsightsRequest true "Employee"
// @Success      200 {object} APIResponse[hr.PerformanceReview]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ai/generate-performance-insights [post]
func (h *AIHandler) GeneratePerformanceInsights(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req PerformanceInsightsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	loc := h.loc
	if loc == nil {
		loc = time.UTC
	}
	r, err := shared.ResolveDateRange(nil, nil, defaultPerformanceDays, time.Now().In(loc))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	review, err := h.reviewer.AnalyzePerformance(c.Request.Context(), tenantID, req.EmployeeID, r)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, review)
}

// EstimateTaskTime godoc
// @ID           aiEstimateTaskTime
// @Summary      Rule-of-thumb task estimate
// @Description  Base hours by task type scaled by complexity and experience; unknown keys use defaults
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body EstimateTaskTimeRequest true "Task type, complexity and experience"
// @Success      200 {object} APIResponse[insight.TaskTimeEstimate]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ai/estimate-task-time [post]
func (h *AIHandler) EstimateTaskTime(c *gin.Context) {
	var req EstimateTaskTimeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.Success(c, insight.EstimateTaskTime(req.TaskType, req.Complexity, req.Experience))
}
