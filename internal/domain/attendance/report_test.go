package attendance

import (
	"testing"
	"time"
)

func TestBuildReportClosedSession(t *testing.T) {
	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	exit := day.Add(17*time.Hour + 30*time.Minute)
	records := []Record{{
		EmployeeID: "emp-1",
		EntryTime:  day.Add(8*time.Hour + 30*time.Minute),
		ExitTime:   &exit,
	}}

	report := BuildReport("emp-1", records, day, day.AddDate(0, 0, 1), 9)
	if report.TotalDays != 1 {
		t.Fatalf("expected 1 day, got %d", report.TotalDays)
	}
	if report.TotalHours != 9 {
		t.Fatalf("expected 9 hours, got %v", report.TotalHours)
	}
	if report.LateDays != 0 {
		t.Fatalf("expected 0 late days, got %d", report.LateDays)
	}
}

func TestBuildReportOpenLateSession(t *testing.T) {
	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	records := []Record{{
		EmployeeID: "emp-1",
		EntryTime:  day.Add(9*time.Hour + 15*time.Minute),
	}}

	report := BuildReport("emp-1", records, day, day.AddDate(0, 0, 1), 9)
	if report.TotalDays != 1 {
		t.Fatalf("expected 1 day, got %d", report.TotalDays)
	}
	if report.TotalHours != 0 {
		t.Fatalf("open session must contribute zero hours, got %v", report.TotalHours)
	}
	if report.LateDays != 1 {
		t.Fatalf("expected 1 late day, got %d", report.LateDays)
	}
}

func TestPeriodSpecResolve(t *testing.T) {
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

	start, end, err := PeriodSpec{Period: "weekly", StartDate: "2025-03-03"}.Resolve(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", start)
	}
	if !end.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %v", end)
	}

	start, end, err = PeriodSpec{StartDate: "2025-03-01", EndDate: "2025-03-05"}.Resolve(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !end.Equal(time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("end date must be inclusive, got %v", end)
	}
	_ = start

	if _, _, err := (PeriodSpec{Period: "hourly"}).Resolve(now); err == nil {
		t.Fatal("expected error for unknown period")
	}
	if _, _, err := (PeriodSpec{StartDate: "2025-03-10", EndDate: "2025-03-01"}).Resolve(now); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

func TestPeriodSpecDefaultsToToday(t *testing.T) {
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	start, end, err := PeriodSpec{Period: "daily"}.Resolve(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected today midnight, got %v", start)
	}
	if !end.Equal(start.AddDate(0, 0, 1)) {
		t.Fatalf("expected one day span, got %v", end)
	}
}
