package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const selectionColumns = "invocation_id, mode, input_count, output_count, passthrough_count, path, cancelled, error_message, started_at, finished_at"

// RecordSelection inserts the outcome of one invocation. Recording the same
// invocation twice is rejected.
func (s *Store) RecordSelection(ctx context.Context, sel Selection) error {
	if strings.TrimSpace(sel.InvocationID) == "" {
		return errors.New("selection invocation id is required")
	}
	if sel.Path == "" {
		sel.Path = PathPassthrough
	}
	err := s.execWithRetry(
		ctx,
		`INSERT INTO selections (`+selectionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sel.InvocationID,
		sel.Mode,
		sel.InputCount,
		sel.OutputCount,
		sel.PassthroughCount,
		string(sel.Path),
		boolToInt(sel.Cancelled),
		nullableString(sel.ErrorMessage),
		formatTime(sel.StartedAt),
		formatTime(sel.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert selection: %w", err)
	}
	return nil
}

// GetSelection fetches one selection; nil when absent.
func (s *Store) GetSelection(ctx context.Context, invocationID string) (*Selection, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectionColumns+` FROM selections WHERE invocation_id = ?`, invocationID)
	sel, err := scanSelection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get selection: %w", err)
	}
	return sel, nil
}

// ListSelections returns the most recent selections first. A limit <= 0
// returns everything.
func (s *Store) ListSelections(ctx context.Context, limit int) ([]Selection, error) {
	query := `SELECT ` + selectionColumns + ` FROM selections ORDER BY finished_at DESC, invocation_id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	defer rows.Close()

	var out []Selection
	for rows.Next() {
		sel, err := scanSelection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		out = append(out, *sel)
	}
	return out, rows.Err()
}

// Stats summarises recorded selections.
type Stats struct {
	Total     int
	Delivered int
	Cancelled int
}

// SelectionStats counts delivered and cancelled selections.
func (s *Store) SelectionStats(ctx context.Context) (Stats, error) {
	var stats Stats
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1), COALESCE(SUM(cancelled), 0) FROM selections`)
	if err := row.Scan(&stats.Total, &stats.Cancelled); err != nil {
		return Stats{}, fmt.Errorf("selection stats: %w", err)
	}
	stats.Delivered = stats.Total - stats.Cancelled
	return stats, nil
}

// ClearSelections removes all selection history and returns the number of
// rows deleted.
func (s *Store) ClearSelections(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM selections`)
	if err != nil {
		return 0, fmt.Errorf("clear selections: %w", err)
	}
	return res.RowsAffected()
}

func scanSelection(scanner interface{ Scan(dest ...any) error }) (*Selection, error) {
	var (
		sel          Selection
		path         string
		cancelled    int64
		errorMessage sql.NullString
		startedRaw   string
		finishedRaw  string
	)
	if err := scanner.Scan(
		&sel.InvocationID,
		&sel.Mode,
		&sel.InputCount,
		&sel.OutputCount,
		&sel.PassthroughCount,
		&path,
		&cancelled,
		&errorMessage,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	sel.Path = Path(path)
	sel.Cancelled = cancelled != 0
	sel.ErrorMessage = errorMessage.String
	if t, err := parseTimeString(startedRaw); err == nil {
		sel.StartedAt = t
	}
	if t, err := parseTimeString(finishedRaw); err == nil {
		sel.FinishedAt = t
	}
	return &sel, nil
}
