package insight

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	jsonFencePattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	hoursPattern     = regexp.MustCompile(`(\d+\.?\d*)\s*hours?`)
	listMarker       = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)
)

// ExtractJSON returns the body of a ```json fence when present, else the trimmed text
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)
	if m := jsonFencePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

// SplitLines returns the non-empty trimmed lines of text
func SplitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// SuggestedTask is a task proposed by the model
type SuggestedTask struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	EstimatedTime *float64 `json:"estimated_time"`
}

// ParseSuggestedTasks reads "Title: description (N hours)" lines. The title
// is everything before the first colon; an hour figure is lifted out of the
// description.
func ParseSuggestedTasks(text string) []SuggestedTask {
	tasks := []SuggestedTask{}
	for _, line := range strings.Split(text, "\n") {
		idx := strings.Index(line, ":")
		if line == "" || idx < 0 {
			continue
		}
		title := strings.TrimSpace(line[:idx])
		desc := strings.TrimSpace(line[idx+1:])

		t := SuggestedTask{Title: title, Description: desc}
		if m := hoursPattern.FindStringSubmatch(desc); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				t.EstimatedTime = &v
			}
			t.Description = strings.TrimSpace(strings.Replace(desc, m[0], "", 1))
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// SplitEmailCopy separates a generated email into subject and body. The first
// line mentioning "subject" with a colon wins; otherwise the first line is the subject.
func SplitEmailCopy(text string) (subject, body string) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), "subject") {
			continue
		}
		if _, after, ok := strings.Cut(line, ":"); ok {
			return cleanHeading(after), strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		}
	}
	if len(lines) == 0 {
		return "", ""
	}
	return cleanHeading(lines[0]), strings.TrimSpace(strings.Join(lines[1:], "\n"))
}

func cleanHeading(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "#* ")
	s = strings.TrimRight(s, "* ")
	return strings.Trim(s, `"`)
}

// CleanListItem strips bullets and numbering from a model-produced list line
func CleanListItem(line string) string {
	return strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
}
