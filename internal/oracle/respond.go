package oracle

import (
	"strings"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/models"
)

const (
	insufficientData = "There isn't enough data yet to point at a problem. Keep logging check-ins and tasks for a few more days."
	noAnalysis       = "Nothing stands out this week. Keep logging and check back in a few days."
	stableSleep      = "Your sleep looks stable and isn't showing up as a factor in your results."
	collectingData   = "I'm still collecting data. Ask about problems, your week, sleep or a plan for tomorrow."

	actionPlan = "Plan for tomorrow:\n" +
		"1. Pick the one task that matters most and do it first.\n" +
		"2. Attach your habits to fixed times and check them off as you go.\n" +
		"3. Stop screens an hour before bed and aim for seven hours of sleep.\n" +
		"4. Do a check-in before you go to bed."
)

type tone struct {
	prefix, suffix string
}

var tones = map[string]tone{
	constants.ToneGentle: {prefix: "Here's what I'm seeing, gently: ", suffix: " Be kind to yourself, small steps count."},
	constants.ToneDirect: {prefix: "Bottom line: ", suffix: " That's the priority."},
	constants.ToneFirm:   {prefix: "Straight talk: ", suffix: " No excuses. Act on it today."},
}

// route is one keyword rule. The first route with a matching keyword
// answers.
type route struct {
	keywords []string
	answer   func([]models.Insight) string
}

var routes = []route{
	{keywords: []string{"problem", "what's wrong", "whats wrong", "what is wrong"}, answer: worstInsight},
	{keywords: []string{"plan", "tomorrow"}, answer: func([]models.Insight) string { return actionPlan }},
	{keywords: []string{"week", "analysis"}, answer: allInsights},
	{keywords: []string{"sleep"}, answer: sleepInsight},
}

// Respond answers text from insights, wrapped in the voice of tone. Unknown
// tones use the direct voice.
func Respond(text string, insights []models.Insight, toneName string) string {
	t, ok := tones[toneName]
	if !ok {
		t = tones[constants.ToneDirect]
	}
	return t.prefix + answer(strings.ToLower(text), insights) + t.suffix
}

func answer(text string, insights []models.Insight) string {
	for _, r := range routes {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.answer(insights)
			}
		}
	}
	if len(insights) > 0 {
		return format(insights[0])
	}
	return collectingData
}

// worstInsight picks the first insight of the highest severity.
func worstInsight(insights []models.Insight) string {
	if len(insights) == 0 {
		return insufficientData
	}
	worst := insights[0]
	for _, in := range insights[1:] {
		if in.Severity.Rank() > worst.Severity.Rank() {
			worst = in
		}
	}
	return format(worst)
}

func allInsights(insights []models.Insight) string {
	if len(insights) == 0 {
		return noAnalysis
	}
	parts := make([]string, len(insights))
	for i, in := range insights {
		parts[i] = format(in)
	}
	return strings.Join(parts, "\n\n")
}

func sleepInsight(insights []models.Insight) string {
	for _, in := range insights {
		if strings.Contains(strings.ToLower(in.Title), "sleep") {
			return format(in)
		}
	}
	return stableSleep
}

func format(in models.Insight) string {
	return in.Title + ". " + in.Evidence + " " + in.Recommendation
}
