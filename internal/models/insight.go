package models

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities so that higher is more urgent.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

type InsightKind string

const (
	InsightWeekday     InsightKind = "weekday_pattern"
	InsightSleepImpact InsightKind = "sleep_impact"
	InsightSleepMood   InsightKind = "sleep_mood_anomaly"
	InsightTrend       InsightKind = "weekly_trend"
)

// Insight is a behavioral observation derived from recent history. It is
// computed on demand and never persisted.
type Insight struct {
	Kind           InsightKind `json:"kind"`
	Title          string      `json:"title"`
	Evidence       string      `json:"evidence"`
	Recommendation string      `json:"recommendation"`
	Severity       Severity    `json:"severity"`
}
