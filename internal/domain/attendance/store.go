package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pointage/internal/domain/geo"
)

const recordColumns = `
    id, employee_id, entry_time, entry_lat, entry_lng, entry_method,
    exit_time, exit_lat, exit_lng, created_at`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateEntry(ctx context.Context, employeeID string, at time.Time, loc geo.Point, method string) (*Record, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (employee_id, entry_time, entry_lat, entry_lng, entry_method)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING `+recordColumns+`
  `, employeeID, at, loc.Lat, loc.Lng, method)
	return scanRecord(row)
}

func (s *Store) HasOpenSession(ctx context.Context, employeeID string, windowStart time.Time) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM attendance_records
    WHERE employee_id = $1 AND exit_time IS NULL AND entry_time >= $2
  `, employeeID, windowStart).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CloseEntry is a single conditional UPDATE: the exit_time IS NULL recheck on
// the locked row means two concurrent exits can never both stamp the same
// record; the loser matches nothing.
func (s *Store) CloseEntry(ctx context.Context, employeeID string, exitAt time.Time, loc geo.Point, windowStart time.Time) (*Record, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE attendance_records
    SET exit_time = $1, exit_lat = $2, exit_lng = $3
    WHERE id = (
      SELECT id FROM attendance_records
      WHERE employee_id = $4 AND exit_time IS NULL AND entry_time >= $5
      ORDER BY entry_time DESC
      LIMIT 1
    )
      AND exit_time IS NULL
      AND entry_time < $1
    RETURNING `+recordColumns+`
  `, exitAt, loc.Lat, loc.Lng, employeeID, windowStart)

	rec, err := scanRecord(row)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Nothing updated: distinguish "no open session" from "exit precedes
	// entry" for the caller's error taxonomy.
	var entry time.Time
	err = s.DB.QueryRow(ctx, `
    SELECT entry_time FROM attendance_records
    WHERE employee_id = $1 AND exit_time IS NULL AND entry_time >= $2
    ORDER BY entry_time DESC
    LIMIT 1
  `, employeeID, windowStart).Scan(&entry)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoOpenSession
	}
	if err != nil {
		return nil, err
	}
	if !exitAt.After(entry) {
		return nil, ErrExitBeforeEntry
	}
	return nil, ErrNoOpenSession
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID string, limit int) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records
    WHERE employee_id = $1
    ORDER BY entry_time DESC
    LIMIT $2
  `, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (s *Store) ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records
    WHERE employee_id = $1 AND entry_time >= $2 AND entry_time < $3
    ORDER BY entry_time
  `, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.EntryTime, &rec.EntryLat, &rec.EntryLng, &rec.EntryMethod,
		&rec.ExitTime, &rec.ExitLat, &rec.ExitLng, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func collectRecords(rows pgx.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}
