package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/questlog/internal/models"
)

const habitColumns = `id, owner_id, name, frequency_type, weekdays, times_per_week, xp_reward,
	difficulty, goal_id, reminder_times, time_of_day, created_at, archived_at`

func (s *Store) AddHabit(habit models.Habit) error {
	_, err := s.exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habitArgs(habit)...)
	return err
}

func (s *Store) GetHabit(ownerID, id string) (models.Habit, error) {
	row := s.queryRow(`SELECT `+habitColumns+` FROM habits WHERE owner_id = ? AND id = ?`, ownerID, id)
	h, err := scanHabit(row)
	if err != nil {
		return models.Habit{}, noRows(err)
	}
	return h, nil
}

func (s *Store) GetHabitByName(ownerID, name string) (models.Habit, error) {
	row := s.queryRow(`
		SELECT `+habitColumns+` FROM habits
		WHERE owner_id = ? AND name = ? AND archived_at IS NULL
		ORDER BY created_at LIMIT 1`, ownerID, name)
	h, err := scanHabit(row)
	if err != nil {
		return models.Habit{}, noRows(err)
	}
	return h, nil
}

func (s *Store) ListHabits(ownerID string, includeArchived bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE owner_id = ?`
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY created_at, id"

	rows, err := s.query(query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	args := habitArgs(habit)
	// id and owner_id move to the WHERE clause
	args = append(args[2:], habit.OwnerID, habit.ID)
	return mustAffect(s.exec(`
		UPDATE habits SET
			name = ?, frequency_type = ?, weekdays = ?, times_per_week = ?, xp_reward = ?,
			difficulty = ?, goal_id = ?, reminder_times = ?, time_of_day = ?, created_at = ?, archived_at = ?
		WHERE owner_id = ? AND id = ?`, args...))
}

func (s *Store) ArchiveHabit(ownerID, id string) error {
	return mustAffect(s.exec(`
		UPDATE habits SET archived_at = ?
		WHERE owner_id = ? AND id = ? AND archived_at IS NULL`,
		formatTime(time.Now()), ownerID, id))
}

func habitArgs(h models.Habit) []interface{} {
	codes := make([]string, 0, len(h.Weekdays))
	for _, wd := range h.Weekdays {
		codes = append(codes, models.WeekdayCode(wd))
	}
	return []interface{}{
		h.ID, h.OwnerID, h.Name, string(h.FrequencyType), joinList(codes), h.TimesPerWeek, h.XPReward,
		string(h.Difficulty), h.GoalID, joinList(h.ReminderTimes), h.TimeOfDay,
		formatTime(h.CreatedAt), nullTime(h.ArchivedAt),
	}
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var frequency, weekdays, difficulty, reminders, createdAt string
	var archivedAt sql.NullString

	err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &frequency, &weekdays, &h.TimesPerWeek, &h.XPReward,
		&difficulty, &h.GoalID, &reminders, &h.TimeOfDay, &createdAt, &archivedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.FrequencyType = models.FrequencyType(frequency)
	h.Difficulty = models.Difficulty(difficulty)
	h.ReminderTimes = splitList(reminders)
	for _, code := range splitList(weekdays) {
		wd, err := models.ParseWeekdayCode(code)
		if err != nil {
			return models.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
		}
		h.Weekdays = append(h.Weekdays, wd)
	}

	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.ArchivedAt, err = parseNullTime("archived_at", archivedAt); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}
