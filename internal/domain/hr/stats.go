package hr

import (
	"sort"
	"time"

	"github.com/hyperflow/backend/internal/domain/shared"
)

// DefaultLateThreshold is 09:15:00
const DefaultLateThreshold = 9*time.Hour + 15*time.Minute

// DailyAttendance is the headcount of one work day
type DailyAttendance struct {
	Date           string  `json:"date"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	Late           int     `json:"late"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// AttendanceSummary averages the daily figures over days that have records
type AttendanceSummary struct {
	TotalEmployees    int     `json:"total_employees"`
	AvgPresent        float64 `json:"avg_present"`
	AvgAbsent         float64 `json:"avg_absent"`
	AvgLate           float64 `json:"avg_late"`
	AvgAttendanceRate float64 `json:"avg_attendance_rate"`
}

// AttendanceStats is the tenant-wide attendance report
type AttendanceStats struct {
	Summary    AttendanceSummary `json:"summary"`
	DailyStats []DailyAttendance `json:"daily_stats"`
}

// BuildAttendanceStats buckets records by work date. Only dates that have at
// least one record appear; absent is the remaining headcount.
func BuildAttendanceStats(records []*Attendance, totalEmployees int, lateThreshold time.Duration, loc *time.Location) AttendanceStats {
	byDate := make(map[string][]*Attendance)
	for _, r := range records {
		key := r.WorkDate.Format(shared.DateLayout)
		byDate[key] = append(byDate[key], r)
	}

	daily := make([]DailyAttendance, 0, len(byDate))
	for date, recs := range byDate {
		d := DailyAttendance{
			Date:    date,
			Present: len(recs),
			Absent:  totalEmployees - len(recs),
		}
		for _, r := range recs {
			if r.IsLate(lateThreshold, loc) {
				d.Late++
			}
		}
		if totalEmployees > 0 {
			d.AttendanceRate = float64(d.Present) / float64(totalEmployees) * 100
		}
		daily = append(daily, d)
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })

	summary := AttendanceSummary{TotalEmployees: totalEmployees}
	if n := float64(len(daily)); n > 0 {
		for _, d := range daily {
			summary.AvgPresent += float64(d.Present)
			summary.AvgAbsent += float64(d.Absent)
			summary.AvgLate += float64(d.Late)
			summary.AvgAttendanceRate += d.AttendanceRate
		}
		summary.AvgPresent /= n
		summary.AvgAbsent /= n
		summary.AvgLate /= n
		summary.AvgAttendanceRate /= n
	}

	return AttendanceStats{Summary: summary, DailyStats: daily}
}
