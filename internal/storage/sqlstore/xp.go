package sqlstore

import (
	"github.com/julianstephens/questlog/internal/models"
)

func (s *Store) AddXPTransaction(tx models.XPTransaction) error {
	_, err := s.exec(`
		INSERT INTO xp_transactions (id, owner_id, source_type, source_id, amount, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.OwnerID, string(tx.SourceType), tx.SourceID, tx.Amount, tx.Note, formatTime(tx.CreatedAt))
	return err
}

func (s *Store) ListXPTransactions(ownerID string, limit int) ([]models.XPTransaction, error) {
	query := `
		SELECT id, owner_id, source_type, source_id, amount, note, created_at
		FROM xp_transactions
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC`
	args := []interface{}{ownerID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.XPTransaction
	for rows.Next() {
		var tx models.XPTransaction
		var source, createdAt string
		if err := rows.Scan(&tx.ID, &tx.OwnerID, &source, &tx.SourceID, &tx.Amount, &tx.Note, &createdAt); err != nil {
			return nil, err
		}
		tx.SourceType = models.SourceType(source)
		if tx.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// SumXP aggregates the ledger on every call.
func (s *Store) SumXP(ownerID string) (int, error) {
	var total int64
	err := s.queryRow(`SELECT COALESCE(SUM(amount), 0) FROM xp_transactions WHERE owner_id = ?`, ownerID).Scan(&total)
	if err != nil {
		return 0, err
	}
	return int(total), nil
}
