package attendancehandler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"pointage/internal/auth"
	"pointage/internal/domain/attendance"
	"pointage/internal/domain/employees"
	"pointage/internal/domain/geo"
	"pointage/internal/platform/config"
	attendancehandler "pointage/internal/transport/http/handlers/attendance"
	"pointage/internal/transport/http/middleware"
)

type stubStore struct{}

func (stubStore) CreateEntry(ctx context.Context, employeeID string, at time.Time, loc geo.Point, method string) (*attendance.Record, error) {
	return &attendance.Record{EmployeeID: employeeID, EntryTime: at, EntryMethod: method}, nil
}

func (stubStore) HasOpenSession(ctx context.Context, employeeID string, windowStart time.Time) (bool, error) {
	return false, nil
}

func (stubStore) CloseEntry(ctx context.Context, employeeID string, exitAt time.Time, loc geo.Point, windowStart time.Time) (*attendance.Record, error) {
	return nil, attendance.ErrNoOpenSession
}

func (stubStore) ListForEmployee(ctx context.Context, employeeID string, limit int) ([]attendance.Record, error) {
	return nil, nil
}

func (stubStore) ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	return nil, nil
}

// emptyDirectory behaves like the SQL-backed store against an empty table.
type emptyDirectory struct{}

func (emptyDirectory) FindByID(ctx context.Context, id string) (*employees.Employee, error) {
	return nil, employees.ErrNotFound
}

func (emptyDirectory) List(ctx context.Context) ([]employees.Employee, error) {
	return nil, nil
}

type silentNotifier struct{}

func (silentNotifier) Notify(ctx context.Context, employeeID, ntype, message string) {}

func newTestRouter(t *testing.T, secret string) http.Handler {
	t.Helper()

	cfg := config.Config{
		GeofenceLat:        48.8566,
		GeofenceLng:        2.3522,
		GeofenceRadiusM:    200,
		FaceMatchThreshold: 0.6,
		LateHour:           9,
	}
	svc := attendance.NewService(stubStore{}, emptyDirectory{}, silentNotifier{},
		attendance.NewQRCodec(secret, 5*time.Minute), cfg)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(secret))
	router.Route("/api/v1", func(r chi.Router) {
		attendancehandler.NewHandler(svc).RegisterRoutes(r)
	})
	return router
}

// An entry for an employee the directory does not know must surface as 404,
// not as an internal error.
func TestManualEntryUnknownEmployeeReturns404(t *testing.T) {
	const secret = "test-secret"
	router := newTestRouter(t, secret)

	token, err := auth.GenerateToken(secret, auth.Claims{EmployeeID: "admin-1", Role: auth.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	body := `{
		"employeeId": "emp-404",
		"entryTime": "` + time.Now().UTC().Format(time.RFC3339) + `",
		"location": {"coordinates": [2.3522, 48.8566]}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d body=%s", rec.Code, rec.Body.String())
	}
	var env struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Success || env.Code != "employee_not_found" {
		t.Fatalf("expected employee_not_found, got success=%v code=%q", env.Success, env.Code)
	}
}
