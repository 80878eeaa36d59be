package handler

import (
	"net/http"
	"testing"
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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type aiFixture struct {
	who       caller
	analyzer  *mockAnalyzer
	timelines *mockTaskService
	reviewer  *mockEmployeeService
	router    *gin.Engine
}

func newAIFixture() *aiFixture {
	f := &aiFixture{
		who:       newCaller(),
		analyzer:  new(mockAnalyzer),
		timelines: new(mockTaskService),
		reviewer:  new(mockEmployeeService),
	}
	h := NewAIHandler(f.analyzer, f.timelines, f.reviewer, time.UTC)
	r := newTestRouter(&f.who)
	r.POST("/ai/analyze-client-input", h.AnalyzeClientInput)
	r.POST("/ai/analyze-platform-messages", h.AnalyzePlatformMessages)
	r.POST("/ai/predict-task-timeline", h.PredictTaskTimeline)
	r.POST("/ai/analyze-meeting-transcript", h.AnalyzeMeetingTranscript)
	r.POST("/ai/generate-marketing-insights", h.GenerateMarketingInsights)
	r.POST("/ai/analyze-financial-data", h.AnalyzeFinancialData)
	r.POST("/ai/analyze-employee-performance", h.AnalyzeEmployeePerformance)
	r.POST("/ai/generate-suggested-tasks", h.GenerateSuggestedTasks)
	r.POST("/ai/generate-performance-insights", h.GeneratePerformanceInsights)
	r.POST("/ai/estimate-task-time", h.EstimateTaskTime)
	f.router = r
	return f
}

func TestAIHandler_AnalyzeClientInput(t *testing.T) {
	f := newAIFixture()
	f.analyzer.On("AnalyzeClientInput", mock.Anything, assistant.ClientInputRequest{Text: "Urgent: new logo"}).
		Return(assistant.ClientInputAnalysis{PriorityLevel: "high", Sentiment: "neutral"})

	rec := doJSON(t, f.router, http.MethodPost, "/ai/analyze-client-input", ClientInputRequest{Text: "Urgent: new logo"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "high", decodeData[assistant.ClientInputAnalysis](t, rec).PriorityLevel)

	rec = doJSON(t, f.router, http.MethodPost, "/ai/analyze-client-input", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrCodeValidationRequired, decodeError(t, rec).Code)
}

func TestAIHandler_AnalyzePlatformMessages(t *testing.T) {
	f := newAIFixture()
	msgs := []assistant.PlatformMessage{{Platform: "slack", Sender: "client"}}
	f.analyzer.On("AnalyzePlatformMessages", mock.Anything, msgs).
		Return(assistant.PlatformAnalysis{MessageCount: 1, Platforms: []string{"slack"}})

	rec := doJSON(t, f.router, http.MethodPost, "/ai/analyze-platform-messages", PlatformMessagesRequest{Messages: msgs})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decodeData[assistant.PlatformAnalysis](t, rec).MessageCount)

	rec = doJSON(t, f.router, http.MethodPost, "/ai/analyze-platform-messages", PlatformMessagesRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIHandler_PredictTaskTimeline(t *testing.T) {
	f := newAIFixture()
	taskID := uuid.New()
	insightID := uuid.New()
	f.timelines.On("PredictTimeline", mock.Anything, work.PredictTimelineInput{
		TenantID: f.who.tenantID, TaskID: &taskID, TaskDescription: "Build landing page",
	}).Return(&work.TimelinePrediction{
		TaskTimeline: assistant.TaskTimeline{EstimatedTime: 12, TaskComplexity: "medium"},
		InsightID:    &insightID,
	}, nil)

	rec := doJSON(t, f.router, http.MethodPost, "/ai/predict-task-timeline", PredictTimelineRequest{TaskDescription: "Build landing page", TaskID: &taskID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeData[work.TimelinePrediction](t, rec)
	assert.Equal(t, 12.0, got.EstimatedTime)
	assert.Equal(t, insightID, *got.InsightID)

	rec = doJSON(t, f.router, http.MethodPost, "/ai/predict-task-timeline", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIHandler_MeetingTranscriptDefaultsToClient(t *testing.T) {
	f := newAIFixture()
	f.analyzer.On("AnalyzeMeetingTranscript", mock.Anything, "We agreed on a budget", "client").
		Return(assistant.MeetingAnalysis{Summary: "Budget agreed"})

	rec := doJSON(t, f.router, http.MethodPost, "/ai/analyze-meeting-transcript", MeetingRequest{Transcript: "We agreed on a budget"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Budget agreed", decodeData[assistant.MeetingAnalysis](t, rec).Summary)
}

func TestAIHandler_GenerateMarketingInsights(t *testing.T) {
	f := newAIFixture()
	f.analyzer.On("GenerateMarketingInsights", mock.Anything, map[string]any{"budget": float64(1000)}, "enterprise").
		Return(assistant.MarketingInsights{TrendIdentification: []string{"video"}})

	rec := doJSON(t, f.router, http.MethodPost, "/ai/generate-marketing-insights", `{"campaign_data":{"budget":1000},"market_segment":"enterprise"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"video"}, decodeData[assistant.MarketingInsights](t, rec).TrendIdentification)

	rec = doJSON(t, f.router, http.MethodPost, "/ai/generate-marketing-insights", `{"campaign_data":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIHandler_AnalyzeFinancialData(t *testing.T) {
	f := newAIFixture()
	f.analyzer.On("AnalyzeFinancialData", mock.Anything, mock.MatchedBy(func(entries []assistant.FinancialEntry) bool {
		return len(entries) == 2 &&
			entries[0].RecordDate.Equal(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)) &&
			entries[1].RecordDate.Equal(time.Date(2026, 1, 20, 9, 30, 0, 0, time.UTC)) &&
			entries[1].Amount.Equal(decimal.NewFromInt(40))
	})).Return(assistant.FinancialAnalysis{Prediction: "stable"})

	body := `{"financial_records":[
		{"record_type":"income","amount":"100","record_date":"2026-01-15"},
		{"record_type":"expense","amount":"40","record_date":"2026-01-20T09:30:00Z"}]}`
	rec := doJSON(t, f.router, http.MethodPost, "/ai/analyze-financial-data", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "stable", decodeData[assistant.FinancialAnalysis](t, rec).Prediction)

	tests := []struct {
		name string
		body string
	}{
		{"empty", `{"financial_records":[]}`},
		{"bad type", `{"financial_records":[{"record_type":"loan","amount":"1","record_date":"2026-01-15"}]}`},
		{"bad date", `{"financial_records":[{"record_type":"income","amount":"1","record_date":"Jan 15"}]}`},
		{"missing date", `{"financial_records":[{"record_type":"income","amount":"1"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, f.router, http.MethodPost, "/ai/analyze-financial-data", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
	f.analyzer.AssertNumberOfCalls(t, "AnalyzeFinancialData", 1)
}

func TestAIHandler_AnalyzeEmployeePerformance(t *testing.T) {
	f := newAIFixture()
	est := 4.0
	f.analyzer.On("AnalyzeEmployeePerformance", mock.Anything, mock.MatchedBy(func(req assistant.EmployeePerformanceRequest) bool {
		return req.EmployeeName == "Eve" && len(req.Tasks) == 1 && len(req.Attendance) == 0 &&
			req.Tasks[0].Status == "completed" && *req.Tasks[0].EstimatedTime == est
	})).Return(assistant.EmployeePerformance{Strengths: []string{"delivery"}})

	rec := doJSON(t, f.router, http.MethodPost, "/ai/analyze-employee-performance", EmployeePerformanceRequest{
		EmployeeName: "Eve", TaskData: []TaskInput{{Status: "completed", EstimatedTime: &est}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"delivery"}, decodeData[assistant.EmployeePerformance](t, rec).Strengths)

	rec = doJSON(t, f.router, http.MethodPost, "/ai/analyze-employee-performance", EmployeePerformanceRequest{EmployeeName: "Eve"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIHandler_GenerateSuggestedTasks(t *testing.T) {
	f := newAIFixture()
	msgs := []assistant.PlatformMessage{{Platform: "email", Sender: "client"}}
	f.analyzer.On("AnalyzePlatformMessages", mock.Anything, msgs).Return(assistant.PlatformAnalysis{MessageCount: 1})
	f.analyzer.On("AnalyzeClientInput", mock.Anything, assistant.ClientInputRequest{Text: "Need SEO audit"}).
		Return(assistant.ClientInputAnalysis{SuggestedTasks: []insight.SuggestedTask{{Title: "SEO audit"}}})

	rec := doJSON(t, f.router, http.MethodPost, "/ai/generate-suggested-tasks", SuggestedTasksRequest{ClientRequirements: "ignored", PlatformData: msgs})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decodeData[assistant.PlatformAnalysis](t, rec).MessageCount)

	rec = doJSON(t, f.router, http.MethodPost, "/ai/generate-suggested-tasks", SuggestedTasksRequest{ClientRequirements: "Need SEO audit"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "SEO audit", decodeData[assistant.ClientInputAnalysis](t, rec).SuggestedTasks[0].Title)

	rec = doJSON(t, f.router, http.MethodPost, "/ai/generate-suggested-tasks", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIHandler_GeneratePerformanceInsights(t *testing.T) {
	f := newAIFixture()
	employeeID := uuid.New()
	f.reviewer.On("AnalyzePerformance", mock.Anything, f.who.tenantID, employeeID, mock.MatchedBy(func(r shared.DateRange) bool {
		return r.Days() == defaultPerformanceDays+1
	})).Return(&hr.PerformanceReview{Employee: hr.EmployeeRef{ID: employeeID}}, nil)

	rec := doJSON(t, f.router, http.MethodPost, "/ai/generate-performance-insights", PerformanceInsightsRequest{EmployeeID: employeeID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, employeeID, decodeData[hr.PerformanceReview](t, rec).Employee.ID)

	rec = doJSON(t, f.router, http.MethodPost, "/ai/generate-performance-insights", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIHandler_EstimateTaskTime(t *testing.T) {
	f := newAIFixture()

	rec := doJSON(t, f.router, http.MethodPost, "/ai/estimate-task-time", EstimateTaskTimeRequest{TaskType: "design", Complexity: "complex", Experience: "senior"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeData[insight.TaskTimeEstimate](t, rec)
	assert.Equal(t, 8.5, got.EstimatedHours)
	assert.Equal(t, "design", got.TaskType)
}
