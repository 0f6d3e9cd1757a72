package sqlstore

import (
	"github.com/julianstephens/questlog/internal/models"
)

const checkInColumns = `id, owner_id, date, sleep_score, productivity_score, mood_score, note, created_at`

func (s *Store) AddCheckIn(c models.CheckIn) error {
	return s.insertOnce(`
		INSERT INTO check_ins (`+checkInColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		c.ID, c.OwnerID, c.Date, c.SleepScore, c.ProductivityScore, c.MoodScore, c.Note, formatTime(c.CreatedAt))
}

func (s *Store) GetCheckIn(ownerID, date string) (models.CheckIn, error) {
	row := s.queryRow(`SELECT `+checkInColumns+` FROM check_ins WHERE owner_id = ? AND date = ?`, ownerID, date)
	c, err := scanCheckIn(row)
	if err != nil {
		return models.CheckIn{}, noRows(err)
	}
	return c, nil
}

func (s *Store) ListCheckIns(ownerID, from, to string) ([]models.CheckIn, error) {
	rows, err := s.query(`
		SELECT `+checkInColumns+` FROM check_ins
		WHERE owner_id = ? AND date >= ? AND date <= ?
		ORDER BY date`, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkIns []models.CheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		checkIns = append(checkIns, c)
	}
	return checkIns, rows.Err()
}

func scanCheckIn(row scanner) (models.CheckIn, error) {
	var c models.CheckIn
	var createdAt string
	err := row.Scan(&c.ID, &c.OwnerID, &c.Date, &c.SleepScore, &c.ProductivityScore, &c.MoodScore, &c.Note, &createdAt)
	if err != nil {
		return models.CheckIn{}, err
	}
	if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.CheckIn{}, err
	}
	return c, nil
}
