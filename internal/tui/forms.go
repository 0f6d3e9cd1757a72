package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/models"
)

// CheckInFormModel holds the raw answers of the check-in form.
type CheckInFormModel struct {
	Sleep        string
	Productivity string
	Mood         string
	Note         string
}

// NewCheckInForm builds the daily check-in form bound to m.
func NewCheckInForm(m *CheckInFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("How well did you sleep? (0-%d)", constants.MaxScore)).
				Value(&m.Sleep).
				Validate(validateScore),
			huh.NewInput().
				Title(fmt.Sprintf("How productive were you? (0-%d)", constants.MaxScore)).
				Value(&m.Productivity).
				Validate(validateScore),
			huh.NewInput().
				Title(fmt.Sprintf("How is your mood? (0-%d)", constants.MaxScore)).
				Value(&m.Mood).
				Validate(validateScore),
			huh.NewText().
				Title("Anything else?").
				Value(&m.Note),
		),
	)
}

// CheckIn converts the answers into a check-in for ownerID on date.
func (m CheckInFormModel) CheckIn(ownerID, date string) (models.CheckIn, error) {
	sleep, err := parseScore(m.Sleep)
	if err != nil {
		return models.CheckIn{}, fmt.Errorf("sleep: %w", err)
	}
	productivity, err := parseScore(m.Productivity)
	if err != nil {
		return models.CheckIn{}, fmt.Errorf("productivity: %w", err)
	}
	mood, err := parseScore(m.Mood)
	if err != nil {
		return models.CheckIn{}, fmt.Errorf("mood: %w", err)
	}
	return models.CheckIn{
		OwnerID:           ownerID,
		Date:              date,
		SleepScore:        sleep,
		ProductivityScore: productivity,
		MoodScore:         mood,
		Note:              strings.TrimSpace(m.Note),
	}, nil
}

func validateScore(s string) error {
	_, err := parseScore(s)
	return err
}

func parseScore(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > constants.MaxScore {
		return 0, fmt.Errorf("enter a whole number from 0 to %d", constants.MaxScore)
	}
	return n, nil
}

// AskFormModel holds a question for the oracle.
type AskFormModel struct {
	Question string
}

func NewAskForm(m *AskFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Ask the oracle").
				Placeholder("what's wrong? / plan for tomorrow / how was my week / sleep").
				Value(&m.Question),
		),
	)
}
