package attendance

import (
	"context"
	"fmt"
	"time"

	"pointage/internal/auth"
)

type Report struct {
	EmployeeID string    `json:"employeeId"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	TotalDays  int       `json:"totalDays"`
	TotalHours float64   `json:"totalHours"`
	LateDays   int       `json:"lateDays"`
}

// PeriodSpec is the raw period selection from the request: a named period
// anchored at startDate, an explicit range, or nothing (caller default).
type PeriodSpec struct {
	Period    string
	StartDate string
	EndDate   string
}

func (p PeriodSpec) Empty() bool {
	return p.Period == "" && p.StartDate == "" && p.EndDate == ""
}

// Resolve turns the selection into a half-open [start, end) range. A named period
// anchors at startDate, defaulting to today.
func (p PeriodSpec) Resolve(now time.Time) (time.Time, time.Time, error) {
	start := dayStart(now)
	if p.StartDate != "" {
		parsed, err := parseDay(p.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("startDate: %w", err)
		}
		start = parsed
	}

	switch p.Period {
	case "daily":
		return start, start.AddDate(0, 0, 1), nil
	case "weekly":
		return start, start.AddDate(0, 0, 7), nil
	case "monthly":
		return start, start.AddDate(0, 1, 0), nil
	case "":
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown period %q", p.Period)
	}

	end := dayStart(now).AddDate(0, 0, 1)
	if p.EndDate != "" {
		parsed, err := parseDay(p.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("endDate: %w", err)
		}
		// End date is inclusive in the API; the range is half-open.
		end = parsed.AddDate(0, 0, 1)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("endDate precedes startDate")
	}
	return start, end, nil
}

func parseDay(value string) (time.Time, error) {
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return dayStart(parsed), nil
}

// BuildReport aggregates records: each record with an entry counts one day,
// hours accrue only for closed sessions, and an entry at or past lateHour
// (local) marks the day late. Open sessions are never estimated.
func BuildReport(employeeID string, records []Record, start, end time.Time, lateHour int) Report {
	report := Report{EmployeeID: employeeID, StartDate: start, EndDate: end}
	for _, rec := range records {
		report.TotalDays++
		if hours, ok := rec.WorkingHours(); ok {
			report.TotalHours += hours
		}
		if rec.EntryTime.Hour() >= lateHour {
			report.LateDays++
		}
	}
	return report
}

// Report builds the presence summary for one employee.
func (s *Service) Report(ctx context.Context, actor auth.Principal, employeeID string, spec PeriodSpec) (*Report, error) {
	if !actor.CanActFor(employeeID) {
		return nil, ErrNotAuthorized
	}
	emp, err := s.lookupEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	start, end, err := spec.Resolve(now)
	if err != nil {
		return nil, err
	}
	if spec.Empty() {
		start, end = dayStart(emp.HireDate), now
	}

	records, err := s.store.ListRange(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	report := BuildReport(employeeID, records, start, end, s.lateHour)
	return &report, nil
}

// FleetReport runs the per-employee aggregation across the whole directory.
// Without an explicit period each employee's report spans hire date to now.
func (s *Service) FleetReport(ctx context.Context, actor auth.Principal, spec PeriodSpec) ([]Report, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotAuthorized
	}

	all, err := s.directory.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	reports := make([]Report, 0, len(all))
	for _, emp := range all {
		start, end, err := spec.Resolve(now)
		if err != nil {
			return nil, err
		}
		if spec.Empty() {
			start, end = dayStart(emp.HireDate), now
		}
		records, err := s.store.ListRange(ctx, emp.ID, start, end)
		if err != nil {
			return nil, err
		}
		reports = append(reports, BuildReport(emp.ID, records, start, end, s.lateHour))
	}
	return reports, nil
}
