package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Skufu/medplat/internal/dataset"
)

// InsertRows stores rows under one batch id in a single transaction.
func (s *Store) InsertRows(ctx context.Context, batchID string, rows []dataset.Row) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.rebind(`INSERT INTO uploaded_rows (batch_id, doc, created_at) VALUES (?, ?, ?)`))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, row := range rows {
		doc, err := json.Marshal(row)
		if err != nil {
			return 0, fmt.Errorf("encode row %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, batchID, string(doc), now); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(rows), nil
}

// ListRows returns stored rows in insertion order with their id as "_id".
// A limit of zero or less reads the whole collection.
func (s *Store) ListRows(ctx context.Context, limit int) ([]dataset.Row, error) {
	query := `SELECT id, doc FROM uploaded_rows ORDER BY id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rs, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rs.Close()

	out := []dataset.Row{}
	for rs.Next() {
		var (
			id  int64
			doc string
		)
		if err := rs.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var row dataset.Row
		if err := json.Unmarshal([]byte(doc), &row); err != nil {
			return nil, fmt.Errorf("decode row %d: %w", id, err)
		}
		row.Prepend("_id", strconv.FormatInt(id, 10))
		out = append(out, row)
	}
	return out, rs.Err()
}

func (s *Store) CountRows(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM uploaded_rows`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

// DeleteRows removes every uploaded row and reports how many were removed.
func (s *Store) DeleteRows(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM uploaded_rows`)
	if err != nil {
		return 0, fmt.Errorf("delete rows: %w", err)
	}
	return res.RowsAffected()
}
