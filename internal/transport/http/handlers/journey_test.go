package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pointage/internal/app/server"
	"pointage/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

// TestAttendanceJourney drives the full flow over HTTP against a real
// database: admin login, employee creation, manual entry, exit, and the
// period report.
func TestAttendanceJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Load()
	cfg.DatabaseURL = dbURL
	cfg.JWTSecret = "test-secret"
	cfg.SessionTTL = time.Hour
	cfg.Environment = "test"
	cfg.RunMigrations = true
	cfg.MigrationsDir = filepath.Join("..", "..", "..", "..", "migrations")
	cfg.RunSeed = true
	cfg.SeedAdminEmail = "admin@test.local"
	cfg.SeedAdminPassword = "ChangeMe123!"
	cfg.EmailEnabled = false
	cfg.StorageEndpoint = ""
	cfg.GeofenceLat = 48.8566
	cfg.GeofenceLng = 2.3522
	cfg.GeofenceRadiusM = 200

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	email := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	employeeID := createEmployee(t, client, ts.URL, token, email)

	entryTime := time.Now().Add(-2 * time.Hour).UTC()
	location := map[string]any{"coordinates": []float64{cfg.GeofenceLng, cfg.GeofenceLat}}

	env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/attendance", token, map[string]any{
		"employeeId": employeeID,
		"entryTime":  entryTime.Format(time.RFC3339),
		"location":   location,
	})
	if !env.Success {
		t.Fatalf("manual entry rejected: %s (%s)", env.Message, env.Code)
	}

	// A second entry while the session is open must conflict.
	env = doJSONStatus(t, client, http.MethodPost, ts.URL+"/api/v1/attendance", token, map[string]any{
		"employeeId": employeeID,
		"entryTime":  time.Now().UTC().Format(time.RFC3339),
		"location":   location,
	}, http.StatusConflict)
	if env.Code != "open_session_exists" {
		t.Fatalf("expected open_session_exists, got %s", env.Code)
	}

	env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/attendance/exit", token, map[string]any{
		"employeeId": employeeID,
		"exitTime":   time.Now().UTC().Format(time.RFC3339),
		"location":   location,
	})
	if !env.Success {
		t.Fatalf("exit rejected: %s (%s)", env.Message, env.Code)
	}

	env = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/attendance/report/"+employeeID, token, nil)
	if !env.Success {
		t.Fatalf("report failed: %s", env.Message)
	}
	var report struct {
		TotalDays  int     `json:"totalDays"`
		TotalHours float64 `json:"totalHours"`
	}
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.TotalDays != 1 {
		t.Fatalf("expected 1 worked day, got %d", report.TotalDays)
	}
	if report.TotalHours < 1.5 || report.TotalHours > 2.5 {
		t.Fatalf("expected roughly 2 worked hours, got %.2f", report.TotalHours)
	}
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if !env.Success {
		t.Fatalf("login failed: %s (%s)", env.Message, env.Code)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if data.Token == "" {
		t.Fatal("expected a session token")
	}
	return data.Token
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token, email string) string {
	t.Helper()
	env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/employees", token, map[string]any{
		"firstName": "Journey",
		"lastName":  "Employee",
		"email":     email,
		"password":  "Secret123!",
		"role":      "employee",
		"hireDate":  "2024-01-15",
	})
	if !env.Success {
		t.Fatalf("create employee failed: %s (%s)", env.Message, env.Code)
	}
	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode employee: %v", err)
	}
	if data.ID == "" {
		t.Fatal("expected created employee id")
	}
	return data.ID
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) envelope {
	t.Helper()
	return doRequest(t, client, method, url, token, body, 0)
}

func doJSONStatus(t *testing.T, client *http.Client, method, url, token string, body any, wantStatus int) envelope {
	t.Helper()
	return doRequest(t, client, method, url, token, body, wantStatus)
}

func doRequest(t *testing.T, client *http.Client, method, url, token string, body any, wantStatus int) envelope {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if wantStatus != 0 && resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected status %d, got %d", method, url, wantStatus, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}
