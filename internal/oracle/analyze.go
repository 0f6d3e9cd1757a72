// Package oracle mines a user's recent history for behavioral patterns and
// answers questions about them.
package oracle

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/utils"
)

// Input is the history an analysis runs over. Records outside the window
// are ignored, so callers may pass more than needed.
type Input struct {
	CheckIns  []models.CheckIn
	Tasks     []models.Task
	HabitLogs []models.HabitLog
}

// Analyze runs every analysis for the window ending on today and returns
// their insights in a fixed order: weekday pattern, sleep impact,
// sleep/mood anomaly, weekly trend. It reads nothing but its arguments.
func Analyze(in Input, today string) []models.Insight {
	end, err := utils.ParseDate(today)
	if err != nil {
		return nil
	}
	h := newHistory(in, end)

	var insights []models.Insight
	for _, analysis := range []func(*history) (models.Insight, bool){
		weekdayPattern,
		sleepImpact,
		sleepMoodAnomaly,
		weeklyTrend,
	} {
		if insight, ok := analysis(h); ok {
			insights = append(insights, insight)
		}
	}
	return insights
}

type dayTasks struct {
	total, completed int
}

// history indexes the input by calendar day.
type history struct {
	end      time.Time
	tasks    map[string]dayTasks
	checkIns map[string]models.CheckIn
	habits   map[string]bool // days with at least one completed habit log
}

func newHistory(in Input, end time.Time) *history {
	h := &history{
		end:      end,
		tasks:    make(map[string]dayTasks),
		checkIns: make(map[string]models.CheckIn),
		habits:   make(map[string]bool),
	}
	from := h.day(constants.OracleWindowDays - 1)
	to := h.day(0)
	inWindow := func(date string) bool { return date >= from && date <= to }

	for _, t := range in.Tasks {
		if !inWindow(t.Date) {
			continue
		}
		d := h.tasks[t.Date]
		d.total++
		if t.Completed {
			d.completed++
		}
		h.tasks[t.Date] = d
	}
	for _, c := range in.CheckIns {
		if inWindow(c.Date) {
			h.checkIns[c.Date] = c
		}
	}
	for _, l := range in.HabitLogs {
		if l.Completed && inWindow(l.Date) {
			h.habits[l.Date] = true
		}
	}
	return h
}

// day returns the date n days before the end of the window.
func (h *history) day(n int) string {
	return utils.FormatDate(h.end.AddDate(0, 0, -n))
}

// completionRate is the share of the day's tasks that were completed.
func (h *history) completionRate(date string) (float64, bool) {
	d, ok := h.tasks[date]
	if !ok || d.total == 0 {
		return 0, false
	}
	return float64(d.completed) / float64(d.total), true
}

func (h *history) active(date string) bool {
	return h.tasks[date].completed > 0 || h.habits[date]
}

func exceeds(diff, threshold float64) bool {
	return math.Abs(diff) > threshold+constants.FloatTolerance
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func percent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

func weekdayPattern(h *history) (models.Insight, bool) {
	var rates [7][]float64
	for n := 0; n < constants.OracleWindowDays; n++ {
		date := h.day(n)
		if rate, ok := h.completionRate(date); ok {
			wd := h.end.AddDate(0, 0, -n).Weekday()
			rates[wd] = append(rates[wd], rate)
		}
	}

	best, worst := -1, -1
	var bestRate, worstRate float64
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if len(rates[wd]) == 0 {
			continue
		}
		r := mean(rates[wd])
		if best < 0 || r > bestRate {
			best, bestRate = int(wd), r
		}
		if worst < 0 || r < worstRate {
			worst, worstRate = int(wd), r
		}
	}
	if best < 0 || best == worst || !exceeds(bestRate-worstRate, constants.WeekdayGapThreshold) {
		return models.Insight{}, false
	}

	bestDay, worstDay := time.Weekday(best), time.Weekday(worst)
	return models.Insight{
		Kind:  models.InsightWeekday,
		Title: fmt.Sprintf("%ss are your strongest day, %ss your weakest", bestDay, worstDay),
		Evidence: fmt.Sprintf("Over the last %d days you completed %s of tasks on %ss but only %s on %ss.",
			constants.OracleWindowDays, percent(bestRate), bestDay, percent(worstRate), worstDay),
		Recommendation: fmt.Sprintf("Schedule demanding work on %ss and keep %ss light.", bestDay, worstDay),
		Severity:       models.SeverityMedium,
	}, true
}

func sleepImpact(h *history) (models.Insight, bool) {
	var low, high []float64
	pairs := 0
	// Pair each night's sleep with the next day's completion, for next days
	// inside the trailing lag window.
	for n := 0; n < constants.OracleLagDays; n++ {
		next := h.day(n)
		c, ok := h.checkIns[h.day(n+1)]
		if !ok {
			continue
		}
		rate, ok := h.completionRate(next)
		if !ok {
			continue
		}
		pairs++
		switch {
		case c.SleepScore <= constants.SleepLowMax:
			low = append(low, rate)
		case c.SleepScore >= constants.SleepHighMin:
			high = append(high, rate)
		}
	}
	if pairs < constants.SleepMinPairs ||
		len(low) < constants.SleepMinBucketSamples || len(high) < constants.SleepMinBucketSamples {
		return models.Insight{}, false
	}

	lowMean, highMean := mean(low), mean(high)
	diff := highMean - lowMean
	if !exceeds(diff, constants.SleepImpactThreshold) {
		return models.Insight{}, false
	}

	evidence := fmt.Sprintf("After nights with sleep %d or better you completed %s of tasks, after nights of %d or less %s.",
		constants.SleepHighMin, percent(highMean), constants.SleepLowMax, percent(lowMean))
	if diff > 0 {
		return models.Insight{
			Kind:           models.InsightSleepImpact,
			Title:          "Sleep drives your next-day output",
			Evidence:       evidence,
			Recommendation: "Prioritize sleep: protect a fixed bedtime before busy days.",
			Severity:       models.SeverityHigh,
		}, true
	}
	return models.Insight{
		Kind:           models.InsightSleepImpact,
		Title:          "Sleep is not your bottleneck",
		Evidence:       evidence,
		Recommendation: "Your output holds up after short nights; look elsewhere for what slows you down.",
		Severity:       models.SeverityLow,
	}, true
}

func sleepMoodAnomaly(h *history) (models.Insight, bool) {
	var normal, high []float64
	for n := 0; n < constants.OracleWindowDays; n++ {
		c, ok := h.checkIns[h.day(n)]
		if !ok {
			continue
		}
		switch {
		case c.SleepScore <= constants.MoodSleepLowMax:
		case c.SleepScore >= constants.MoodSleepHighMin:
			high = append(high, float64(c.MoodScore))
		default:
			normal = append(normal, float64(c.MoodScore))
		}
	}
	if len(normal) < constants.MoodMinBucketSamples || len(high) < constants.MoodMinBucketSamples {
		return models.Insight{}, false
	}

	normalMood, highMood := mean(normal), mean(high)
	if normalMood-highMood <= constants.MoodOversleepDelta+constants.FloatTolerance {
		return models.Insight{}, false
	}
	return models.Insight{
		Kind:  models.InsightSleepMood,
		Title: "Oversleeping lines up with lower mood",
		Evidence: fmt.Sprintf("Average mood is %.1f after normal sleep but %.1f after long sleep (%d vs %d check-ins).",
			normalMood, highMood, len(normal), len(high)),
		Recommendation: "Try a consistent wake time, even after a late night.",
		Severity:       models.SeverityHigh,
	}, true
}

func weeklyTrend(h *history) (models.Insight, bool) {
	recent, prior := 0, 0
	for n := 0; n < constants.OracleTrendDays; n++ {
		if h.active(h.day(n)) {
			recent++
		}
		if h.active(h.day(n + constants.OracleTrendDays)) {
			prior++
		}
	}

	days := float64(constants.OracleTrendDays)
	diff := float64(recent)/days - float64(prior)/days
	if !exceeds(diff, constants.TrendThreshold) {
		return models.Insight{}, false
	}

	evidence := fmt.Sprintf("You were active on %d of the last %d days, compared with %d the week before.",
		recent, constants.OracleTrendDays, prior)
	if diff > 0 {
		return models.Insight{
			Kind:           models.InsightTrend,
			Title:          "Momentum is building",
			Evidence:       evidence,
			Recommendation: "Keep the streak going: repeat what worked this week.",
			Severity:       models.SeverityLow,
		}, true
	}
	return models.Insight{
		Kind:           models.InsightTrend,
		Title:          "Activity dropped this week",
		Evidence:       evidence,
		Recommendation: "Pick one small habit and complete it today to restart.",
		Severity:       models.SeverityHigh,
	}, true
}
