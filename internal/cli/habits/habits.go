package habits

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/ledger"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/utils"
	"github.com/julianstephens/questlog/internal/validation"
)

// streakWindow bounds how far back habit list looks when counting streaks.
const streakWindow = 365

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits with today's status and streaks."`
	Done    HabitDoneCmd    `cmd:"" help:"Mark a habit as done for a day."`
	Undo    HabitUndoCmd    `cmd:"" help:"Undo a habit completion (costs twice the reward)."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive a habit."`
}

type HabitAddCmd struct {
	Name         string   `arg:"" help:"Habit name."`
	Frequency    string   `help:"Frequency: daily, weekdays or timesPerWeek." enum:"daily,weekdays,timesPerWeek" default:"daily"`
	Days         string   `help:"Comma-separated weekdays for the weekdays frequency (e.g. mon,wed,fri)."`
	TimesPerWeek int      `help:"Occurrences per week for the timesPerWeek frequency (1-5, 0 uses the default)." default:"0"`
	XP           int      `help:"XP reward (0 uses the default)." default:"0"`
	Difficulty   string   `help:"Difficulty: easy, medium or hard." default:""`
	Goal         string   `help:"Goal ID that completions count toward."`
	Reminder     []string `help:"Reminder time in HH:MM; repeatable."`
	Time         string   `help:"Preferred time of day in HH:MM."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Store.GetHabitByName(ctx.UserID, c.Name); err == nil {
		return fmt.Errorf("habit with name %q already exists", c.Name)
	}

	habit := models.Habit{
		ID:            uuid.NewString(),
		OwnerID:       ctx.UserID,
		Name:          strings.TrimSpace(c.Name),
		FrequencyType: models.FrequencyType(c.Frequency),
		TimesPerWeek:  c.TimesPerWeek,
		XPReward:      c.XP,
		Difficulty:    models.Difficulty(c.Difficulty),
		GoalID:        c.Goal,
		ReminderTimes: c.Reminder,
		TimeOfDay:     c.Time,
		CreatedAt:     ctx.Now(),
	}
	if c.Days != "" {
		days, err := cli.ParseWeekdays(c.Days)
		if err != nil {
			return err
		}
		habit.Weekdays = days
	}
	if c.Goal != "" {
		if _, err := ctx.Store.GetGoal(ctx.UserID, c.Goal); err != nil {
			return fmt.Errorf("goal %q not found", c.Goal)
		}
	}

	if err := validation.Habit(habit); err != nil {
		return err
	}
	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%s, %d XP)\n", habit.Name, cli.FormatFrequency(habit), ledger.HabitReward(habit))
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	habits, err := ctx.Store.ListHabits(ctx.UserID, c.Archived)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	from, err := utils.AddDays(today, -streakWindow)
	if err != nil {
		return err
	}
	date, err := utils.ParseDate(today)
	if err != nil {
		return err
	}

	for _, habit := range habits {
		logs, err := ctx.Store.ListHabitLogsForHabit(ctx.UserID, habit.ID, from, today)
		if err != nil {
			return err
		}

		mark := "○"
		for _, log := range logs {
			if log.Date == today && log.Completed {
				mark = "✓"
			}
		}
		status := ""
		switch {
		case habit.Archived():
			status = " [ARCHIVED]"
		case !utils.IsScheduled(habit, date):
			status = " (not due today)"
		}

		fmt.Printf("%s %s%s\n", mark, habit.Name, status)
		fmt.Printf("    %s · %d XP · streak %d · id %s\n", cli.FormatFrequency(habit), ledger.HabitReward(habit), ledger.Streak(habit, logs, today), habit.ID)
	}
	return nil
}

type HabitDoneCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	date, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}

	res, err := ctx.Ledger.CompleteHabit(ctx.UserID, habit.ID, date)
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s done for %s (%+d XP)\n", habit.Name, date, res.Transaction.Amount)
	if res.GoalUpdated {
		fmt.Println("  Goal progress updated.")
	}
	return nil
}

type HabitUndoCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitUndoCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	date, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}

	res, err := ctx.Ledger.UncompleteHabit(ctx.UserID, habit.ID, date)
	if err != nil {
		return err
	}
	fmt.Printf("Unmarked %s for %s (%+d XP)\n", habit.Name, date, res.Transaction.Amount)
	return nil
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if habit.Archived() {
		return fmt.Errorf("habit %q is already archived", habit.Name)
	}
	if err := ctx.Store.ArchiveHabit(ctx.UserID, habit.ID); err != nil {
		return err
	}
	fmt.Printf("Archived habit: %s\n", habit.Name)
	return nil
}
