package progress

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/validation"
)

type GoalCmd struct {
	Add    GoalAddCmd    `cmd:"" help:"Add a goal."`
	List   GoalListCmd   `cmd:"" help:"List goals."`
	Status GoalStatusCmd `cmd:"" help:"Change a goal's status."`
	Delete GoalDeleteCmd `cmd:"" help:"Delete a goal (soft delete)."`
}

type GoalAddCmd struct {
	Title  string `arg:"" help:"Goal title."`
	Type   string `help:"Goal type: accumulative counts linked completions, target is updated by hand." enum:"accumulative,target" default:"accumulative"`
	Target int    `help:"Target value." default:"0"`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	goal := models.Goal{
		ID:          uuid.NewString(),
		OwnerID:     ctx.UserID,
		Title:       strings.TrimSpace(c.Title),
		GoalType:    models.GoalType(c.Type),
		TargetValue: c.Target,
		Status:      models.GoalActive,
		CreatedAt:   ctx.Now(),
	}
	if err := validation.Goal(goal); err != nil {
		return err
	}
	if err := ctx.Store.AddGoal(goal); err != nil {
		return err
	}
	fmt.Printf("Added goal: %s (%s)\n", goal.Title, goal.ID)
	return nil
}

type GoalListCmd struct {
	Deleted bool `help:"Include deleted goals."`
}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	goals, err := ctx.Store.ListGoals(ctx.UserID, c.Deleted)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Println("No goals found.")
		return nil
	}
	for _, g := range goals {
		progress := fmt.Sprintf("%d", g.CurrentValue)
		if g.TargetValue > 0 {
			progress = fmt.Sprintf("%d/%d", g.CurrentValue, g.TargetValue)
		}
		status := string(g.Status)
		if g.DeletedAt != nil {
			status = "deleted"
		}
		fmt.Printf("%s  [%s] %s  %s  %s\n", g.ID, status, g.Title, g.GoalType, progress)
	}
	return nil
}

type GoalStatusCmd struct {
	ID     string `arg:"" help:"Goal ID."`
	Status string `arg:"" help:"New status: active, completed or archived." enum:"active,completed,archived"`
}

func (c *GoalStatusCmd) Run(ctx *cli.Context) error {
	goal, err := ctx.Store.GetGoal(ctx.UserID, c.ID)
	if err != nil {
		return fmt.Errorf("goal %q not found", c.ID)
	}
	goal.Status = models.GoalStatus(c.Status)
	if err := validation.Goal(goal); err != nil {
		return err
	}
	if err := ctx.Store.UpdateGoal(goal); err != nil {
		return err
	}
	fmt.Printf("Goal %s is now %s\n", goal.Title, goal.Status)
	return nil
}

type GoalDeleteCmd struct {
	ID string `arg:"" help:"Goal ID."`
}

func (c *GoalDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeleteGoal(ctx.UserID, c.ID); err != nil {
		return fmt.Errorf("failed to delete goal %q: %w", c.ID, err)
	}
	fmt.Printf("Deleted goal: %s\n", c.ID)
	return nil
}
