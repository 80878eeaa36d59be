package insight

import (
	"math"
	"time"
)

// Trend labels
const (
	TrendPositive = "positive"
	TrendNegative = "negative"
	TrendStable   = "stable"
	TrendUnknown  = "unknown"
)

// ProfitTrend reads month-over-month profit growth. With at least three months
// the mean of the last three growth figures decides: above 5% positive, below
// -5% negative. Growth from a zero month is skipped.
func ProfitTrend(monthlyProfit []float64) string {
	if len(monthlyProfit) < 3 {
		return TrendStable
	}
	growth := make([]float64, 0, len(monthlyProfit)-1)
	for i := 1; i < len(monthlyProfit); i++ {
		prev := monthlyProfit[i-1]
		if prev == 0 {
			continue
		}
		growth = append(growth, (monthlyProfit[i]-prev)/math.Abs(prev)*100)
	}
	if len(growth) == 0 {
		return TrendStable
	}
	if len(growth) > 3 {
		growth = growth[len(growth)-3:]
	}
	avg := meanOf(growth)
	switch {
	case avg > 5:
		return TrendPositive
	case avg < -5:
		return TrendNegative
	default:
		return TrendStable
	}
}

// AttendanceSample is one attendance row fed into performance metrics
type AttendanceSample struct {
	LoginTime  *time.Time
	LogoutTime *time.Time
}

// TaskSample is one task row fed into performance metrics
type TaskSample struct {
	Status        string
	EstimatedTime *float64
	ActualTime    *float64
}

// EmployeeMetrics are the deterministic inputs of a performance review
type EmployeeMetrics struct {
	AvgHoursWorked     float64 `json:"avg_hours_worked"`
	PunctualityRate    float64 `json:"punctuality_rate"`
	TaskCompletionRate float64 `json:"task_completion_rate"`
	AvgTaskTime        float64 `json:"avg_task_time"`
	EfficiencyRate     float64 `json:"efficiency_rate"`
}

// ComputeEmployeeMetrics derives averages from attendance and tasks. Lateness
// is a login time-of-day in loc after lateThreshold.
func ComputeEmployeeMetrics(attendance []AttendanceSample, tasks []TaskSample, lateThreshold time.Duration, loc *time.Location) EmployeeMetrics {
	var m EmployeeMetrics

	var hours []float64
	logins, late := 0, 0
	for _, a := range attendance {
		if a.LoginTime == nil {
			continue
		}
		logins++
		h, mi, s := a.LoginTime.In(loc).Clock()
		if time.Duration(h)*time.Hour+time.Duration(mi)*time.Minute+time.Duration(s)*time.Second > lateThreshold {
			late++
		}
		if a.LogoutTime != nil {
			hours = append(hours, a.LogoutTime.Sub(*a.LoginTime).Hours())
		}
	}
	m.AvgHoursWorked = round2(meanOf(hours))
	if logins > 0 {
		m.PunctualityRate = round2(100 - float64(late)/float64(logins)*100)
	}

	completed := 0
	var actuals, ratios []float64
	for _, t := range tasks {
		if t.Status != "completed" {
			continue
		}
		completed++
		if t.ActualTime != nil {
			actuals = append(actuals, *t.ActualTime)
		}
		if t.EstimatedTime != nil && t.ActualTime != nil && *t.EstimatedTime > 0 && *t.ActualTime > 0 {
			ratios = append(ratios, *t.EstimatedTime / *t.ActualTime)
		}
	}
	if len(tasks) > 0 {
		m.TaskCompletionRate = round2(float64(completed) / float64(len(tasks)) * 100)
	}
	m.AvgTaskTime = round2(meanOf(actuals))
	m.EfficiencyRate = round2(meanOf(ratios) * 100)
	return m
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
