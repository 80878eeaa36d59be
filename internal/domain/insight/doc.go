// Package insight holds the AI assistant's port to a language model and the
// deterministic text and number crunching that surrounds every model call:
// JSON extraction, sentiment and urgency scoring, task parsing, profit trends,
// employee metrics and the task-time heuristic.
package insight
