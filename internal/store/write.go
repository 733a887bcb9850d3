package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/llql/internal/engine"
)

// Status is the outcome of a recorded run.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Record is one row of the history.
type Record struct {
	ID       string
	Seq      int64
	Query    string
	Files    []string
	Status   Status
	Error    string
	RowCount int
	Columns  []string
	Front    time.Duration
	Engine   time.Duration

	// Snapshot is nil for failed runs and in listings.
	Snapshot *Snapshot
}

// NewRecord captures run, executed over files.
func NewRecord(run *engine.Run, files []string) Record {
	rec := Record{
		ID:     run.ID,
		Seq:    run.Seq,
		Query:  run.Query,
		Files:  append([]string(nil), files...),
		Status: StatusOK,
		Front:  run.Front,
		Engine: run.Engine,
	}
	if run.Err != nil {
		rec.Status = StatusError
		rec.Error = run.Err.Error()
	}
	if run.Result != nil {
		rec.Snapshot = NewSnapshot(run.Result)
		rec.RowCount = run.Result.Len()
		rec.Columns = rec.Snapshot.Columns
	}
	return rec
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WriteRun inserts a history record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteRun(ctx context.Context, rec Record) error {
	return writeRun(ctx, s.db, rec)
}

// WriteRuns records every run of one script in a single transaction.
func (s *Store) WriteRuns(ctx context.Context, runs []*engine.Run, files []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write runs: %w", err)
	}
	defer tx.Rollback()

	for _, run := range runs {
		if err := writeRun(ctx, tx, NewRecord(run, files)); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write runs: %w", err)
	}
	return nil
}

func writeRun(ctx context.Context, db execer, rec Record) error {
	files, err := marshalStrings(rec.Files)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	columns, err := marshalStrings(rec.Columns)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	result, err := marshalSnapshot(rec.Snapshot)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	status := rec.Status
	if status == "" {
		status = StatusOK
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, query, files, status, error, row_count, front_ns, engine_ns, columns, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Seq,
		rec.Query,
		files,
		string(status),
		rec.Error,
		rec.RowCount,
		rec.Front.Nanoseconds(),
		rec.Engine.Nanoseconds(),
		columns,
		result,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	return nil
}
