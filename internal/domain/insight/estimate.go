package insight

import (
	"math"
	"strings"
)

// Base hours per task type
var baseHours = map[string]float64{
	"design":      6,
	"development": 12,
	"content":     4,
	"copywriting": 3,
	"seo":         5,
	"social":      2,
	"marketing":   6,
	"research":    5,
	"video":       10,
	"meeting":     1,
	"review":      2,
	"general":     4,
}

var complexityMultiplier = map[string]float64{
	"simple":   0.6,
	"low":      0.75,
	"moderate": 1.0,
	"medium":   1.0,
	"high":     1.5,
	"complex":  1.8,
}

var experienceMultiplier = map[string]float64{
	"junior": 1.4,
	"mid":    1.0,
	"senior": 0.8,
	"expert": 0.7,
}

// TaskTimeEstimate explains how an estimate was composed
type TaskTimeEstimate struct {
	TaskType             string  `json:"task_type"`
	Complexity           string  `json:"complexity"`
	Experience           string  `json:"experience"`
	BaseHours            float64 `json:"base_hours"`
	ComplexityMultiplier float64 `json:"complexity_multiplier"`
	ExperienceMultiplier float64 `json:"experience_multiplier"`
	EstimatedHours       float64 `json:"estimated_hours"`
}

// EstimateTaskTime multiplies base hours by the complexity and experience
// factors and rounds to the nearest half hour. Unknown keys fall back to
// general, moderate and mid.
func EstimateTaskTime(taskType, complexity, experience string) TaskTimeEstimate {
	e := TaskTimeEstimate{
		TaskType:   lookupKey(baseHours, taskType, "general"),
		Complexity: lookupKey(complexityMultiplier, complexity, "moderate"),
		Experience: lookupKey(experienceMultiplier, experience, "mid"),
	}
	e.BaseHours = baseHours[e.TaskType]
	e.ComplexityMultiplier = complexityMultiplier[e.Complexity]
	e.ExperienceMultiplier = experienceMultiplier[e.Experience]
	hours := e.BaseHours * e.ComplexityMultiplier * e.ExperienceMultiplier
	e.EstimatedHours = math.Max(0.5, math.Round(hours*2)/2)
	return e
}

// GuessTaskType picks a task type from keywords in a free-text description
func GuessTaskType(description string) string {
	lower := strings.ToLower(description)
	for _, kw := range []struct{ word, kind string }{
		{"video", "video"}, {"develop", "development"}, {"code", "development"}, {"website", "development"},
		{"design", "design"}, {"logo", "design"}, {"seo", "seo"}, {"social", "social"},
		{"blog", "content"}, {"article", "content"}, {"copy", "copywriting"}, {"research", "research"},
		{"campaign", "marketing"}, {"meeting", "meeting"}, {"review", "review"},
	} {
		if strings.Contains(lower, kw.word) {
			return kw.kind
		}
	}
	return "general"
}

func lookupKey(table map[string]float64, key, fallback string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, ok := table[key]; ok {
		return key
	}
	return fallback
}
