package leave

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("leave request not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateRequest(ctx context.Context, req Request) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, start_date, end_date, days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, req.EmployeeID, req.StartDate, req.EndDate, req.Days, req.Reason, StatusPending).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetRequest(ctx context.Context, requestID string) (*Request, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, start_date, end_date, days, reason, status,
           COALESCE(decided_by::text, ''), decided_at, created_at
    FROM leave_requests
    WHERE id = $1
  `, requestID)

	var req Request
	err := row.Scan(&req.ID, &req.EmployeeID, &req.StartDate, &req.EndDate, &req.Days,
		&req.Reason, &req.Status, &req.DecidedBy, &req.DecidedAt, &req.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Store) ListRequests(ctx context.Context, employeeID string, limit, offset int) ([]Request, error) {
	query := `
    SELECT id, employee_id, start_date, end_date, days, reason, status,
           COALESCE(decided_by::text, ''), decided_at, created_at
    FROM leave_requests`
	args := []any{limit, offset}
	if employeeID != "" {
		query += " WHERE employee_id = $3"
		args = append(args, employeeID)
	}
	query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.EmployeeID, &req.StartDate, &req.EndDate, &req.Days,
			&req.Reason, &req.Status, &req.DecidedBy, &req.DecidedAt, &req.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) SetStatus(ctx context.Context, requestID, status, decidedBy string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $1, decided_by = $2, decided_at = now()
    WHERE id = $3 AND status = $4
  `, status, decidedBy, requestID, StatusPending)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
