package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperflow/backend/internal/domain/finance"
	"github.com/hyperflow/backend/internal/domain/insight"
	"github.com/shopspring/decimal"
)

const (
	financeSystemPrompt = "You are a financial analyst for a small agency. Answer only with JSON."
	hrSystemPrompt      = "You are an HR specialist writing fair, specific performance reviews. Answer only with JSON."
)

// AnalyzeFinancialData computes headline metrics and asks the model to interpret them
func (a *Analyzer) AnalyzeFinancialData(ctx context.Context, entries []FinancialEntry) FinancialAnalysis {
	metrics := summaryMetrics(entries)

	prompt := fmt.Sprintf("Interpret these agency finances.\n\nMetrics:\n%s\n\nRecords:\n%s\n\n"+
		"Return an object with financial_health ({status: healthy, stable, at_risk or critical, explanation}), "+
		"key_insights (list of strings), recommendations (list of {area, action}) and prediction (string).",
		prettyJSON(metrics), prettyJSON(entries))

	var out FinancialAnalysis
	if err := a.askJSON(ctx, KindFinancialData, financeSystemPrompt, prompt, &out); err != nil {
		a.fallback(KindFinancialData, err)
		return FallbackFinancialAnalysis()
	}
	a.observe(KindFinancialData, false)
	out.SummaryMetrics = metrics
	out.FinancialHealth.Status = orDefault(out.FinancialHealth.Status, "unknown")
	out.KeyInsights = nonNil(out.KeyInsights)
	out.Recommendations = nonNil(out.Recommendations)
	return out
}

// FallbackFinancialAnalysis is returned when the ledger cannot be interpreted
func FallbackFinancialAnalysis() FinancialAnalysis {
	return FinancialAnalysis{
		SummaryMetrics: SummaryMetrics{
			TotalIncome:   decimal.Zero,
			TotalExpenses: decimal.Zero,
			NetProfit:     decimal.Zero,
			ProfitMargin:  decimal.Zero,
			RecentTrend:   insight.TrendUnknown,
		},
		FinancialHealth: HealthAssessment{Status: "unknown", Explanation: "Analysis error"},
		KeyInsights:     []string{"Error performing financial analysis"},
		Recommendations: []Action{},
		Prediction:      "Unable to generate prediction",
	}
}

func summaryMetrics(entries []FinancialEntry) SummaryMetrics {
	records := make([]*finance.FinancialRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, &finance.FinancialRecord{
			RecordType: finance.RecordType(strings.ToLower(e.RecordType)),
			Amount:     e.Amount,
			RecordDate: e.RecordDate,
		})
	}
	sum := finance.Summarize(records)

	monthly := finance.MonthlyBreakdown(records)
	profits := make([]float64, 0, len(monthly))
	for _, m := range monthly {
		profits = append(profits, m.Profit.InexactFloat64())
	}

	return SummaryMetrics{
		TotalIncome:   sum.TotalRevenue,
		TotalExpenses: sum.TotalExpenses,
		NetProfit:     sum.NetProfit,
		ProfitMargin:  sum.ProfitMargin,
		RecentTrend:   insight.ProfitTrend(profits),
	}
}

// AnalyzeEmployeePerformance computes attendance and task metrics and asks for a review
func (a *Analyzer) AnalyzeEmployeePerformance(ctx context.Context, req EmployeePerformanceRequest) EmployeePerformance {
	metrics := insight.ComputeEmployeeMetrics(req.Attendance, req.Tasks, a.lateThreshold, a.loc)

	prompt := fmt.Sprintf("Review the performance of %s.\n\nMetrics:\n%s\n\n"+
		"Attendance days: %d. Tasks: %d.\n\n"+
		"Return an object with performance_assessment ({rating: excellent, good, satisfactory or needs_improvement, explanation}), "+
		"strengths, improvement_areas and recommendations (each a list of strings).",
		orDefault(req.EmployeeName, "the employee"), prettyJSON(metrics), len(req.Attendance), len(req.Tasks))

	var out EmployeePerformance
	if err := a.askJSON(ctx, KindEmployeePerformance, hrSystemPrompt, prompt, &out); err != nil {
		a.fallback(KindEmployeePerformance, err)
		return EmployeePerformance{
			Metrics:               insight.EmployeeMetrics{},
			PerformanceAssessment: Rating{Rating: "unknown", Explanation: "Analysis error"},
			Strengths:             []string{"Unable to determine strengths"},
			ImprovementAreas:      []string{"Unable to determine improvement areas"},
			Recommendations:       []string{"Unable to generate recommendations"},
		}
	}
	a.observe(KindEmployeePerformance, false)
	out.Metrics = metrics
	out.PerformanceAssessment.Rating = orDefault(out.PerformanceAssessment.Rating, "unknown")
	out.Strengths = nonNil(out.Strengths)
	out.ImprovementAreas = nonNil(out.ImprovementAreas)
	out.Recommendations = nonNil(out.Recommendations)
	return out
}
