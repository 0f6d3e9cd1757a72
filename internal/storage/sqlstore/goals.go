package sqlstore

import (
	"database/sql"
	"time"

	"github.com/julianstephens/questlog/internal/models"
)

const goalColumns = `id, owner_id, title, goal_type, target_value, current_value, status, created_at, deleted_at`

func (s *Store) AddGoal(g models.Goal) error {
	_, err := s.exec(`
		INSERT INTO goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.OwnerID, g.Title, string(g.GoalType), g.TargetValue, g.CurrentValue, string(g.Status),
		formatTime(g.CreatedAt), nullTime(g.DeletedAt))
	return err
}

func (s *Store) GetGoal(ownerID, id string) (models.Goal, error) {
	row := s.queryRow(`SELECT `+goalColumns+` FROM goals WHERE owner_id = ? AND id = ?`, ownerID, id)
	g, err := scanGoal(row)
	if err != nil {
		return models.Goal{}, noRows(err)
	}
	return g, nil
}

func (s *Store) ListGoals(ownerID string, includeDeleted bool) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE owner_id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY created_at, id"

	rows, err := s.query(query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *Store) UpdateGoal(g models.Goal) error {
	return mustAffect(s.exec(`
		UPDATE goals SET title = ?, goal_type = ?, target_value = ?, current_value = ?, status = ?, deleted_at = ?
		WHERE owner_id = ? AND id = ?`,
		g.Title, string(g.GoalType), g.TargetValue, g.CurrentValue, string(g.Status), nullTime(g.DeletedAt),
		g.OwnerID, g.ID))
}

// DeleteGoal soft-deletes a goal so that linked habits and tasks stop
// propagating to it.
func (s *Store) DeleteGoal(ownerID, id string) error {
	return mustAffect(s.exec(`
		UPDATE goals SET deleted_at = ?
		WHERE owner_id = ? AND id = ? AND deleted_at IS NULL`,
		formatTime(time.Now()), ownerID, id))
}

// AdjustGoalProgress applies delta in a single statement so concurrent
// completions cannot lose updates.
func (s *Store) AdjustGoalProgress(ownerID, id string, delta int) (bool, error) {
	res, err := s.exec(`
		UPDATE goals
		SET current_value = CASE WHEN current_value + ? < 0 THEN 0 ELSE current_value + ? END
		WHERE owner_id = ? AND id = ? AND goal_type = ? AND status = ? AND deleted_at IS NULL`,
		delta, delta, ownerID, id, string(models.GoalAccumulative), string(models.GoalActive))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanGoal(row scanner) (models.Goal, error) {
	var g models.Goal
	var goalType, status, createdAt string
	var deletedAt sql.NullString

	err := row.Scan(&g.ID, &g.OwnerID, &g.Title, &goalType, &g.TargetValue, &g.CurrentValue, &status, &createdAt, &deletedAt)
	if err != nil {
		return models.Goal{}, err
	}
	g.GoalType = models.GoalType(goalType)
	g.Status = models.GoalStatus(status)
	if g.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Goal{}, err
	}
	if g.DeletedAt, err = parseNullTime("deleted_at", deletedAt); err != nil {
		return models.Goal{}, err
	}
	return g, nil
}
