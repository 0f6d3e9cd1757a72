package system

import (
	"fmt"
	"strings"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/constants"
	qerrors "github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/models"
)

type UserCmd struct {
	Add  UserAddCmd  `cmd:"" help:"Add a user."`
	List UserListCmd `cmd:"" help:"List users."`
}

type UserAddCmd struct {
	ID   string `arg:"" help:"User ID, used with --user."`
	Name string `help:"Display name (default: the ID)." default:""`
}

func (c *UserAddCmd) Run(ctx *cli.Context) error {
	id := strings.TrimSpace(c.ID)
	if id == "" {
		return fmt.Errorf("user ID must not be empty")
	}
	name := c.Name
	if name == "" {
		name = id
	}
	if err := ctx.Store.AddUser(models.User{ID: id, Name: name, CreatedAt: ctx.Now()}); err != nil {
		if qerrors.IsConflict(err) {
			return fmt.Errorf("user %q already exists", id)
		}
		return fmt.Errorf("failed to add user %q: %w", id, err)
	}
	fmt.Printf("Added user: %s\n", id)
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(ctx *cli.Context) error {
	after := ""
	count := 0
	for {
		users, err := ctx.Store.ListUsers(after, constants.DefaultBackfillPageSize)
		if err != nil {
			return err
		}
		for _, u := range users {
			marker := " "
			if u.ID == ctx.UserID {
				marker = "*"
			}
			fmt.Printf("%s %s  %s\n", marker, u.ID, u.Name)
			count++
		}
		if len(users) < constants.DefaultBackfillPageSize {
			break
		}
		after = users[len(users)-1].ID
	}
	if count == 0 {
		fmt.Println("No users found. Run 'questlog init' first.")
	}
	return nil
}
