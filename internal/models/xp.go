package models

import "time"

type SourceType string

const (
	SourceHabit   SourceType = "habit"
	SourceTask    SourceType = "task"
	SourceCheckIn SourceType = "checkin"
)

// XPTransaction is one append-only entry of the XP ledger. A user's total
// XP is the sum of Amount over all of their transactions.
type XPTransaction struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"owner_id"`
	SourceType SourceType `json:"source_type"`
	SourceID   string     `json:"source_id"`
	Amount     int        `json:"amount"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CheckIn is a user's daily self-assessment. Scores range 0-10.
type CheckIn struct {
	ID                string    `json:"id"`
	OwnerID           string    `json:"owner_id"`
	Date              string    `json:"date"` // YYYY-MM-DD format
	SleepScore        int       `json:"sleep_score"`
	ProductivityScore int       `json:"productivity_score"`
	MoodScore         int       `json:"mood_score"`
	Note              string    `json:"note,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
