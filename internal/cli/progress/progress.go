package progress

import (
	"fmt"
	"strings"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/levels"
	"github.com/julianstephens/questlog/internal/tui"
	"github.com/julianstephens/questlog/internal/utils"
)

// noScore marks a score flag that was not given.
const noScore = -1

type CheckInCmd struct {
	Submit CheckInSubmitCmd `cmd:"" default:"withargs" help:"Submit today's check-in."`
	List   CheckInListCmd   `cmd:"" help:"List recent check-ins."`
}

type CheckInSubmitCmd struct {
	Date         string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Sleep        int    `help:"Sleep score (0-10)." default:"-1"`
	Productivity int    `help:"Productivity score (0-10)." default:"-1"`
	Mood         int    `help:"Mood score (0-10)." default:"-1"`
	Note         string `help:"Optional note." default:""`
}

func (c *CheckInSubmitCmd) Run(ctx *cli.Context) error {
	date, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}

	var form tui.CheckInFormModel
	if c.Sleep == noScore && c.Productivity == noScore && c.Mood == noScore {
		form.Note = c.Note
		if err := tui.NewCheckInForm(&form).Run(); err != nil {
			return err
		}
	} else {
		if c.Sleep == noScore || c.Productivity == noScore || c.Mood == noScore {
			return fmt.Errorf("--sleep, --productivity and --mood must be given together")
		}
		form = tui.CheckInFormModel{
			Sleep:        fmt.Sprint(c.Sleep),
			Productivity: fmt.Sprint(c.Productivity),
			Mood:         fmt.Sprint(c.Mood),
			Note:         c.Note,
		}
	}

	checkIn, err := form.CheckIn(ctx.UserID, date)
	if err != nil {
		return err
	}
	res, err := ctx.Ledger.SubmitCheckIn(checkIn)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Checked in for %s (%+d XP)\n", date, res.Transaction.Amount)
	return nil
}

type CheckInListCmd struct {
	Days int `help:"Number of days to show." default:"14"`
}

func (c *CheckInListCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	from, err := utils.AddDays(today, -(c.Days - 1))
	if err != nil {
		return err
	}
	checkIns, err := ctx.Store.ListCheckIns(ctx.UserID, from, today)
	if err != nil {
		return err
	}
	if len(checkIns) == 0 {
		fmt.Println("No check-ins found.")
		return nil
	}

	fmt.Println("Date        Sleep  Prod  Mood  Note")
	for _, ci := range checkIns {
		fmt.Printf("%s  %5d  %4d  %4d  %s\n", ci.Date, ci.SleepScore, ci.ProductivityScore, ci.MoodScore, ci.Note)
	}
	return nil
}

type XPCmd struct {
	History int `help:"Number of recent transactions to show." default:"10"`
}

func (c *XPCmd) Run(ctx *cli.Context) error {
	total, err := ctx.Ledger.Total(ctx.UserID)
	if err != nil {
		return err
	}
	fmt.Println(LevelCard(ctx.Curve.FromXP(total)))

	if c.History <= 0 {
		return nil
	}
	history, err := ctx.Ledger.History(ctx.UserID, c.History)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return nil
	}
	fmt.Println("\nRecent XP:")
	for _, tx := range history {
		fmt.Printf("  %s  %+5d  %-7s %s\n", tx.CreatedAt.Local().Format("2006-01-02 15:04"), tx.Amount, tx.SourceType, tx.Note)
	}
	return nil
}

// LevelCard renders a level summary with a text progress bar.
func LevelCard(p levels.Progress) string {
	const width = 20
	filled := int(p.Fraction() * width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var b strings.Builder
	fmt.Fprintf(&b, "Level %d · %s\n", p.Index+1, p.Name)
	fmt.Fprintf(&b, "Total XP: %d\n", p.TotalXP)
	if p.NextName == "" {
		fmt.Fprintf(&b, "[%s] max level", bar)
	} else {
		fmt.Fprintf(&b, "[%s] %d XP to %s", bar, p.XPToNext, p.NextName)
	}
	return b.String()
}
