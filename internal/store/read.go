package store

import (
	"context"
	"fmt"
	"time"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// ReadRun returns the record with the given id, including its result
// snapshot. Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, query, files, status, error, row_count, front_ns, engine_ns, columns, result
		FROM runs
		WHERE id = ?
	`, id)

	var result []byte
	rec, err := scanRecord(row, &result)
	if err != nil {
		return Record{}, err
	}

	snap, err := unmarshalSnapshot(result)
	if err != nil {
		return Record{}, fmt.Errorf("read run %s: %w", id, err)
	}
	rec.Snapshot = snap
	return rec, nil
}

// ListRuns returns the most recent limit records in sequence order,
// without result snapshots. A limit <= 0 returns the whole history.
//
// Returns an empty slice (not nil) for an empty history.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}

	// The inner query picks the newest runs, the outer one restores order.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, query, files, status, error, row_count, front_ns, engine_ns, columns
		FROM (
			SELECT * FROM runs
			ORDER BY seq DESC, id COLLATE BINARY DESC
			LIMIT ?
		)
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows, nil)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return records, nil
}

// scanRecord reads the common columns. When result is non-nil the row must
// carry the result column last.
func scanRecord(row scanner, result *[]byte) (Record, error) {
	var rec Record
	var files, columns, status string
	var frontNS, engineNS int64

	dest := []any{
		&rec.ID, &rec.Seq, &rec.Query, &files, &status, &rec.Error,
		&rec.RowCount, &frontNS, &engineNS, &columns,
	}
	if result != nil {
		dest = append(dest, result)
	}
	if err := row.Scan(dest...); err != nil {
		return Record{}, err
	}

	rec.Status = Status(status)
	rec.Front = time.Duration(frontNS)
	rec.Engine = time.Duration(engineNS)

	var err error
	if rec.Files, err = unmarshalStrings(files); err != nil {
		return Record{}, err
	}
	if rec.Columns, err = unmarshalStrings(columns); err != nil {
		return Record{}, err
	}
	return rec, nil
}
