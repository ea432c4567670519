package attendance

import (
	"context"
	"time"

	"pointage/internal/domain/geo"
)

type StoreAPI interface {
	CreateEntry(ctx context.Context, employeeID string, at time.Time, loc geo.Point, method string) (*Record, error)
	HasOpenSession(ctx context.Context, employeeID string, windowStart time.Time) (bool, error)
	// CloseEntry stamps the exit onto the newest open record inside the
	// window. Returns ErrNoOpenSession when nothing matches and
	// ErrExitBeforeEntry when the exit does not strictly follow the entry.
	CloseEntry(ctx context.Context, employeeID string, exitAt time.Time, loc geo.Point, windowStart time.Time) (*Record, error)
	ListForEmployee(ctx context.Context, employeeID string, limit int) ([]Record, error)
	ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
}
