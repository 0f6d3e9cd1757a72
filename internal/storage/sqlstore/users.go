package sqlstore

import (
	"github.com/julianstephens/questlog/internal/models"
)

func (s *Store) AddUser(user models.User) error {
	return s.insertOnce(`
		INSERT INTO users (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING`,
		user.ID, user.Name, formatTime(user.CreatedAt))
}

func (s *Store) GetUser(id string) (models.User, error) {
	row := s.queryRow(`SELECT id, name, created_at FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return models.User{}, noRows(err)
	}
	return u, nil
}

func (s *Store) ListUsers(afterID string, limit int) ([]models.User, error) {
	rows, err := s.query(`
		SELECT id, name, created_at FROM users
		WHERE id > ?
		ORDER BY id
		LIMIT ?`, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Name, &createdAt); err != nil {
		return models.User{}, err
	}
	t, err := parseTime("created_at", createdAt)
	if err != nil {
		return models.User{}, err
	}
	u.CreatedAt = t
	return u, nil
}
