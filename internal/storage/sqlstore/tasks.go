package sqlstore

import (
	"database/sql"

	"github.com/julianstephens/questlog/internal/models"
)

const taskColumns = `id, owner_id, title, description, date, time_of_day, xp_reward, difficulty,
	priority, habit_id, goal_id, completed, completed_at, created_at, archived_at`

// AddTask inserts a task. Generated tasks carry a habit_id and collide on
// the (owner_id, habit_id, date) unique index; the collision is reported as
// storage.ErrDuplicate rather than a driver error.
func (s *Store) AddTask(task models.Task) error {
	return s.insertOnce(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		task.ID, task.OwnerID, task.Title, task.Description, task.Date, task.TimeOfDay, task.XPReward,
		string(task.Difficulty), task.Priority, nullString(task.HabitID), task.GoalID, task.Completed,
		nullTime(task.CompletedAt), formatTime(task.CreatedAt), nullTime(task.ArchivedAt))
}

func (s *Store) GetTask(ownerID, id string) (models.Task, error) {
	row := s.queryRow(`SELECT `+taskColumns+` FROM tasks WHERE owner_id = ? AND id = ?`, ownerID, id)
	t, err := scanTask(row)
	if err != nil {
		return models.Task{}, noRows(err)
	}
	return t, nil
}

func (s *Store) ListTasks(ownerID string, filter models.TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ?`
	args := []interface{}{ownerID}
	if filter.From != "" {
		query += " AND date >= ?"
		args = append(args, filter.From)
	}
	if filter.To != "" {
		query += " AND date <= ?"
		args = append(args, filter.To)
	}
	if filter.HabitID != "" {
		query += " AND habit_id = ?"
		args = append(args, filter.HabitID)
	}
	if filter.OnlyCompleted {
		query += " AND completed = ?"
		args = append(args, true)
	}
	if !filter.IncludeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY date, time_of_day, priority DESC, id"

	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(task models.Task) error {
	return mustAffect(s.exec(`
		UPDATE tasks SET
			title = ?, description = ?, date = ?, time_of_day = ?, xp_reward = ?, difficulty = ?,
			priority = ?, goal_id = ?, completed = ?, completed_at = ?, archived_at = ?
		WHERE owner_id = ? AND id = ?`,
		task.Title, task.Description, task.Date, task.TimeOfDay, task.XPReward, string(task.Difficulty),
		task.Priority, task.GoalID, task.Completed, nullTime(task.CompletedAt), nullTime(task.ArchivedAt),
		task.OwnerID, task.ID))
}

func (s *Store) DeleteTask(ownerID, id string) error {
	return mustAffect(s.exec(`DELETE FROM tasks WHERE owner_id = ? AND id = ?`, ownerID, id))
}

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	var difficulty, createdAt string
	var habitID, completedAt, archivedAt sql.NullString

	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Date, &t.TimeOfDay, &t.XPReward,
		&difficulty, &t.Priority, &habitID, &t.GoalID, &t.Completed, &completedAt, &createdAt, &archivedAt)
	if err != nil {
		return models.Task{}, err
	}

	t.Difficulty = models.Difficulty(difficulty)
	t.HabitID = habitID.String
	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Task{}, err
	}
	if t.CompletedAt, err = parseNullTime("completed_at", completedAt); err != nil {
		return models.Task{}, err
	}
	if t.ArchivedAt, err = parseNullTime("archived_at", archivedAt); err != nil {
		return models.Task{}, err
	}
	return t, nil
}
