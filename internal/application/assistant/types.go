package assistant

import (
	"time"

	"github.com/hyperflow/backend/internal/domain/insight"
	"github.com/shopspring/decimal"
)

// HistoryTask is a past task included as client context
type HistoryTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// HistoryMessage is a past communication included as client context
type HistoryMessage struct {
	Message   string    `json:"message"`
	Channel   string    `json:"channel"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientHistory is what the assistant knows about a client
type ClientHistory struct {
	Tasks          []HistoryTask    `json:"tasks,omitempty"`
	Communications []HistoryMessage `json:"communications,omitempty"`
}

// IsEmpty reports whether there is no history to show the model
func (h *ClientHistory) IsEmpty() bool {
	return h == nil || (len(h.Tasks) == 0 && len(h.Communications) == 0)
}

// ClientInputRequest is a free-text client request to analyze
type ClientInputRequest struct {
	Text         string
	History      *ClientHistory
	PlatformData []PlatformMessage
}

// ClientInputAnalysis is the structured reading of a client request
type ClientInputAnalysis struct {
	KeyRequirements []string                `json:"key_requirements"`
	Sentiment       string                  `json:"sentiment"`
	PriorityLevel   string                  `json:"priority_level"`
	SuggestedTasks  []insight.SuggestedTask `json:"suggested_tasks"`
}

// PlatformMessage is one message pulled from an external channel
type PlatformMessage struct {
	Platform  string `json:"platform"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// PlatformAnalysis summarizes a batch of platform messages
type PlatformAnalysis struct {
	MessageCount    int                     `json:"message_count"`
	Platforms       []string                `json:"platforms"`
	Summary         string                  `json:"summary"`
	KeyRequirements []string                `json:"key_requirements"`
	Sentiment       string                  `json:"sentiment"`
	PriorityLevel   string                  `json:"priority_level"`
	SuggestedTasks  []insight.SuggestedTask `json:"suggested_tasks"`
}

// TimelineRequest asks for a duration estimate of a task
type TimelineRequest struct {
	TaskDescription string         `json:"task_description"`
	HistoricalData  []HistoryEntry `json:"historical_data,omitempty"`
}

// HistoryEntry is a finished task used as a reference point
type HistoryEntry struct {
	Title         string   `json:"title"`
	EstimatedTime *float64 `json:"estimated_time,omitempty"`
	ActualTime    *float64 `json:"actual_time,omitempty"`
}

// TaskTimeline is a predicted effort for a task
type TaskTimeline struct {
	EstimatedTime       float64  `json:"estimated_time"`
	TaskComplexity      string   `json:"task_complexity"`
	RecommendedSkills   []string `json:"recommended_skills"`
	PotentialChallenges []string `json:"potential_challenges"`
}

// ActionItem is a follow-up extracted from a meeting
type ActionItem struct {
	Task     string `json:"task"`
	Assignee string `json:"assignee"`
}

// SentimentReading is a labelled sentiment with confidence
type SentimentReading struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// MeetingAnalysis is the digest of a meeting transcript
type MeetingAnalysis struct {
	Summary           string           `json:"summary"`
	ActionItems       []ActionItem     `json:"action_items"`
	KeyInsights       []string         `json:"key_insights"`
	SentimentAnalysis SentimentReading `json:"sentiment_analysis"`
}

// PerformanceAnalysis lists what worked and what did not
type PerformanceAnalysis struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// Suggestion is an area paired with a proposed change
type Suggestion struct {
	Area       string `json:"area"`
	Suggestion string `json:"suggestion"`
}

// MarketingInsights evaluates campaign data
type MarketingInsights struct {
	PerformanceAnalysis     PerformanceAnalysis `json:"performance_analysis"`
	TrendIdentification     []string            `json:"trend_identification"`
	OptimizationSuggestions []Suggestion        `json:"optimization_suggestions"`
}

// FinancialEntry is one ledger line submitted for analysis
type FinancialEntry struct {
	RecordType  string          `json:"record_type"`
	Amount      decimal.Decimal `json:"amount"`
	RecordDate  time.Time       `json:"record_date"`
	Description string          `json:"description,omitempty"`
}

// SummaryMetrics are the computed headline figures of a ledger
type SummaryMetrics struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"`
	RecentTrend   string          `json:"recent_trend"`
}

// HealthAssessment is a status with an explanation
type HealthAssessment struct {
	Status      string `json:"status"`
	Explanation string `json:"explanation"`
}

// Action is an area paired with a recommended step
type Action struct {
	Area   string `json:"area"`
	Action string `json:"action"`
}

// FinancialAnalysis reads a ledger
type FinancialAnalysis struct {
	SummaryMetrics  SummaryMetrics   `json:"summary_metrics"`
	FinancialHealth HealthAssessment `json:"financial_health"`
	KeyInsights     []string         `json:"key_insights"`
	Recommendations []Action         `json:"recommendations"`
	Prediction      string           `json:"prediction"`
}

// Rating is a performance grade with an explanation
type Rating struct {
	Rating      string `json:"rating"`
	Explanation string `json:"explanation"`
}

// EmployeePerformanceRequest is the activity of one employee
type EmployeePerformanceRequest struct {
	EmployeeName string                     `json:"employee_name,omitempty"`
	Attendance   []insight.AttendanceSample `json:"attendance"`
	Tasks        []insight.TaskSample       `json:"tasks"`
}

// EmployeePerformance reviews one employee
type EmployeePerformance struct {
	Metrics               insight.EmployeeMetrics `json:"metrics"`
	PerformanceAssessment Rating                  `json:"performance_assessment"`
	Strengths             []string                `json:"strengths"`
	ImprovementAreas      []string                `json:"improvement_areas"`
	Recommendations       []string                `json:"recommendations"`
}
