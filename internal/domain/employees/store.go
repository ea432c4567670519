package employees

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no employee matches the lookup.
var ErrNotFound = errors.New("employee not found")

const employeeColumns = `
    id, first_name, last_name, email, role, hire_date,
    face_descriptor, face_enrolled_at, totp_secret IS NOT NULL AND totp_enabled,
    created_at, updated_at`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) FindByID(ctx context.Context, id string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	return scanEmployee(row)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE email = $1`, normalizeEmail(email))
	return scanEmployee(row)
}

func (s *Store) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *emp)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, emp Employee, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, password_hash, role, hire_date)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, emp.FirstName, emp.LastName, normalizeEmail(emp.Email), passwordHash, emp.Role, emp.HireDate).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, id string, emp Employee) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $1,
        last_name = $2,
        email = $3,
        role = $4,
        hire_date = $5,
        updated_at = now()
    WHERE id = $6
  `, emp.FirstName, emp.LastName, normalizeEmail(emp.Email), emp.Role, emp.HireDate, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetFaceDescriptor(ctx context.Context, id string, descriptor []float64) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET face_descriptor = $1, face_enrolled_at = now(), updated_at = now()
    WHERE id = $2
  `, descriptor, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CredentialsByEmail(ctx context.Context, email string) (string, string, string, string, error) {
	var id, hash, role string
	var totp *string
	err := s.DB.QueryRow(ctx, `
    SELECT id, password_hash, role, CASE WHEN totp_enabled THEN totp_secret END
    FROM employees
    WHERE email = $1
  `, normalizeEmail(email)).Scan(&id, &hash, &role, &totp)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", "", "", ErrNotFound
	}
	if err != nil {
		return "", "", "", "", err
	}
	secret := ""
	if totp != nil {
		secret = *totp
	}
	return id, hash, role, secret, nil
}

func (s *Store) TOTPSecret(ctx context.Context, id string) (string, bool, error) {
	var secret *string
	var enabled bool
	err := s.DB.QueryRow(ctx, `
    SELECT totp_secret, totp_enabled FROM employees WHERE id = $1
  `, id).Scan(&secret, &enabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, ErrNotFound
	}
	if err != nil {
		return "", false, err
	}
	if secret == nil {
		return "", enabled, nil
	}
	return *secret, enabled, nil
}

func (s *Store) SetTOTPSecret(ctx context.Context, id, secret string, enabled bool) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET totp_secret = $1, totp_enabled = $2, updated_at = now()
    WHERE id = $3
  `, nullIfEmpty(secret), enabled, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Role, &emp.HireDate,
		&emp.FaceDescriptor, &emp.FaceEnrolledAt, &emp.MFAEnabled,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
