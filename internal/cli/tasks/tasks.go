package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/scheduler"
	"github.com/julianstephens/questlog/internal/validation"
)

type TaskCmd struct {
	Add     TaskAddCmd     `cmd:"" help:"Add a one-off task."`
	List    TaskListCmd    `cmd:"" help:"List tasks for a date range."`
	Done    TaskDoneCmd    `cmd:"" help:"Complete a task."`
	Archive TaskArchiveCmd `cmd:"" help:"Archive completed tasks."`
}

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Date        string `help:"Due date in YYYY-MM-DD format (default: today)." default:""`
	Time        string `help:"Time of day in HH:MM format." default:""`
	XP          int    `help:"XP reward." default:"${task_xp}"`
	Difficulty  string `help:"Difficulty: easy, medium or hard." default:""`
	Priority    int    `help:"Priority (higher is more important)." default:"0"`
	Description string `help:"Longer description." default:""`
	Goal        string `help:"Goal ID that completion counts toward."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.DateOrToday(c.Date)
	if err != nil {
		return err
	}
	timeOfDay := c.Time
	if timeOfDay == "" {
		timeOfDay = constants.EndOfDay
	}
	if c.Goal != "" {
		if _, err := ctx.Store.GetGoal(ctx.UserID, c.Goal); err != nil {
			return fmt.Errorf("goal %q not found", c.Goal)
		}
	}

	task := models.Task{
		ID:          uuid.NewString(),
		OwnerID:     ctx.UserID,
		Title:       strings.TrimSpace(c.Title),
		Description: c.Description,
		Date:        date,
		TimeOfDay:   timeOfDay,
		XPReward:    c.XP,
		Difficulty:  models.Difficulty(c.Difficulty),
		Priority:    c.Priority,
		GoalID:      c.Goal,
		CreatedAt:   ctx.Now(),
	}
	if err := validation.Task(task); err != nil {
		return err
	}
	if err := ctx.Store.AddTask(task); err != nil {
		return err
	}

	fmt.Printf("Added task: %s (%s %s, %d XP)\n", task.Title, task.Date, task.TimeOfDay, task.XPReward)
	return nil
}

type TaskListCmd struct {
	From      string `help:"First date (default: today)." default:""`
	To        string `help:"Last date (default: same as --from)." default:""`
	Completed bool   `help:"Only show completed tasks."`
	Archived  bool   `help:"Include archived tasks."`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	from, err := ctx.DateOrToday(c.From)
	if err != nil {
		return err
	}
	to := from
	if c.To != "" {
		if to, err = ctx.DateOrToday(c.To); err != nil {
			return err
		}
	}
	if to < from {
		return fmt.Errorf("--to %s is before --from %s", to, from)
	}

	tasks, err := ctx.Store.ListTasks(ctx.UserID, models.TaskFilter{
		From:            from,
		To:              to,
		OnlyCompleted:   c.Completed,
		IncludeArchived: c.Archived,
	})
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	for _, task := range tasks {
		fmt.Println(FormatTask(task, today))
	}
	return nil
}

// FormatTask renders one task line with its derived overdue flag.
func FormatTask(task models.Task, today string) string {
	mark := "○"
	if task.Completed {
		mark = "✓"
	}
	var flags []string
	if task.IsOverdue(today) {
		flags = append(flags, "OVERDUE")
	}
	if task.HabitID != "" {
		flags = append(flags, "habit")
	}
	if task.Archived() {
		flags = append(flags, "ARCHIVED")
	}
	line := fmt.Sprintf("%s %s %s  %s (%d XP)", mark, task.Date, task.TimeOfDay, task.Title, task.XPReward)
	if len(flags) > 0 {
		line += " [" + strings.Join(flags, ", ") + "]"
	}
	return line + "  " + task.ID
}

type TaskDoneCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	res, err := ctx.Ledger.CompleteTask(ctx.UserID, c.ID, today)
	if err != nil {
		return err
	}

	suffix := ""
	if res.Overdue {
		suffix = ", overdue"
	}
	fmt.Printf("✓ Completed %s (%+d XP%s)\n", res.Task.Title, res.Transaction.Amount, suffix)
	if res.GoalUpdated {
		fmt.Println("  Goal progress updated.")
	}
	return nil
}

type TaskArchiveCmd struct {
	Through string `help:"Archive completed tasks dated on or before this date (default: today)." default:""`
}

func (c *TaskArchiveCmd) Run(ctx *cli.Context) error {
	through, err := ctx.DateOrToday(c.Through)
	if err != nil {
		return err
	}
	report, err := scheduler.ArchiveCompletedTasks(context.Background(), ctx.Store, ctx.UserID, through, ctx.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Archived %d completed tasks through %s", report.Created, through)
	if report.Failed > 0 {
		fmt.Printf(" (%d failed)", report.Failed)
	}
	fmt.Println()
	return report.Err
}
