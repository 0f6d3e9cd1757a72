package insights

import (
	"fmt"
	"strings"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/models"
)

type OracleCmd struct {
	Insights InsightsCmd `cmd:"" default:"1" help:"Show patterns found in the last four weeks."`
	Ask      AskCmd      `cmd:"" help:"Ask the oracle a question."`
}

type InsightsCmd struct{}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	insights, err := ctx.Analyzer.Insights(ctx.UserID, today)
	if err != nil {
		return err
	}
	if len(insights) == 0 {
		fmt.Println("Not enough history yet. Keep checking in and completing tasks.")
		return nil
	}
	for i, in := range insights {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(FormatInsight(in))
	}
	return nil
}

// FormatInsight renders an insight as a titled block.
func FormatInsight(in models.Insight) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", severityMark(in.Severity), in.Title)
	fmt.Fprintf(&b, "  %s\n", in.Evidence)
	fmt.Fprintf(&b, "  → %s", in.Recommendation)
	return b.String()
}

func severityMark(s models.Severity) string {
	switch s {
	case models.SeverityHigh:
		return "❗"
	case models.SeverityMedium:
		return "•"
	default:
		return "✓"
	}
}

type AskCmd struct {
	Question []string `arg:"" help:"Your question."`
	Tone     string   `help:"Response tone: gentle, direct or firm (default: from config)." default:""`
}

func (c *AskCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	tone := c.Tone
	if tone == "" {
		tone = ctx.Config.Tone
	}
	answer, err := ctx.Analyzer.Ask(ctx.UserID, today, strings.Join(c.Question, " "), tone)
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}
