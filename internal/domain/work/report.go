package work

// PerformanceReport summarizes how a set of tasks went
type PerformanceReport struct {
	TotalTasks             int                `json:"total_tasks"`
	CompletedTasks         int                `json:"completed_tasks"`
	CompletionRate         float64            `json:"completion_rate"`
	AvgCompletionTimeHours float64            `json:"avg_completion_time_hours"`
	EfficiencyPercentage   float64            `json:"efficiency_percentage"`
	StatusBreakdown        map[TaskStatus]int `json:"status_breakdown"`
}

// BuildPerformanceReport computes completion and efficiency figures.
// Completion time is averaged over completed tasks that have both timestamps,
// efficiency over completed tasks with positive estimate and actual.
func BuildPerformanceReport(tasks []*Task) PerformanceReport {
	r := PerformanceReport{
		TotalTasks:      len(tasks),
		StatusBreakdown: make(map[TaskStatus]int, 4),
	}
	for _, s := range AllTaskStatuses() {
		r.StatusBreakdown[s] = 0
	}

	var durations []float64
	var ratios []float64
	for _, t := range tasks {
		if t.Status.IsValid() {
			r.StatusBreakdown[t.Status]++
		}
		if t.Status != TaskStatusCompleted {
			continue
		}
		r.CompletedTasks++
		if t.StartTime != nil && t.EndTime != nil {
			durations = append(durations, t.EndTime.Sub(*t.StartTime).Hours())
		}
		if ratio, ok := t.Efficiency(); ok {
			ratios = append(ratios, ratio)
		}
	}

	if r.TotalTasks > 0 {
		r.CompletionRate = roundTo(float64(r.CompletedTasks)/float64(r.TotalTasks)*100, 2)
	}
	r.AvgCompletionTimeHours = roundTo(mean(durations), 2)
	r.EfficiencyPercentage = roundTo(mean(ratios)*100, 2)
	return r
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
