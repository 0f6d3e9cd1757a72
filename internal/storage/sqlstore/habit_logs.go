package sqlstore

import (
	"github.com/julianstephens/questlog/internal/models"
)

const habitLogColumns = `id, owner_id, habit_id, date, completed, xp_earned, created_at`

func (s *Store) AddHabitLog(log models.HabitLog) error {
	return s.insertOnce(`
		INSERT INTO habit_logs (`+habitLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		log.ID, log.OwnerID, log.HabitID, log.Date, log.Completed, log.XPEarned, formatTime(log.CreatedAt))
}

func (s *Store) GetHabitLog(ownerID, habitID, date string) (models.HabitLog, error) {
	row := s.queryRow(`
		SELECT `+habitLogColumns+` FROM habit_logs
		WHERE owner_id = ? AND habit_id = ? AND date = ?`, ownerID, habitID, date)
	l, err := scanHabitLog(row)
	if err != nil {
		return models.HabitLog{}, noRows(err)
	}
	return l, nil
}

func (s *Store) ListHabitLogs(ownerID, from, to string) ([]models.HabitLog, error) {
	return s.listHabitLogs(`
		SELECT `+habitLogColumns+` FROM habit_logs
		WHERE owner_id = ? AND date >= ? AND date <= ?
		ORDER BY date, habit_id`, ownerID, from, to)
}

func (s *Store) ListHabitLogsForHabit(ownerID, habitID, from, to string) ([]models.HabitLog, error) {
	return s.listHabitLogs(`
		SELECT `+habitLogColumns+` FROM habit_logs
		WHERE owner_id = ? AND habit_id = ? AND date >= ? AND date <= ?
		ORDER BY date`, ownerID, habitID, from, to)
}

func (s *Store) listHabitLogs(query string, args ...interface{}) ([]models.HabitLog, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.HabitLog
	for rows.Next() {
		l, err := scanHabitLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *Store) UpdateHabitLog(log models.HabitLog) error {
	return mustAffect(s.exec(`
		UPDATE habit_logs SET completed = ?, xp_earned = ?
		WHERE owner_id = ? AND id = ?`,
		log.Completed, log.XPEarned, log.OwnerID, log.ID))
}

func (s *Store) DeleteHabitLog(ownerID, id string) error {
	return mustAffect(s.exec(`DELETE FROM habit_logs WHERE owner_id = ? AND id = ?`, ownerID, id))
}

func scanHabitLog(row scanner) (models.HabitLog, error) {
	var l models.HabitLog
	var createdAt string
	if err := row.Scan(&l.ID, &l.OwnerID, &l.HabitID, &l.Date, &l.Completed, &l.XPEarned, &createdAt); err != nil {
		return models.HabitLog{}, err
	}
	t, err := parseTime("created_at", createdAt)
	if err != nil {
		return models.HabitLog{}, err
	}
	l.CreatedAt = t
	return l, nil
}
