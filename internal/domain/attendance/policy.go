package attendance

import (
	"time"

	"pointage/internal/auth"
)

const (
	// FutureSkew caps how far ahead of the server clock a claimed timestamp
	// may sit, regardless of role.
	FutureSkew = 15 * time.Minute

	// StaleWindow is how far back a non-admin may claim within the same day.
	StaleWindow = 15 * time.Minute

	// CorrectionWindow is the admin lookback for retroactive corrections.
	CorrectionWindow = 7 * 24 * time.Hour
)

// CheckAdmissible is the single temporal gate shared by every capture path
// and by exit. Returns nil on accept.
func CheckAdmissible(claimed, now time.Time, role string) *Rejection {
	if claimed.After(now.Add(FutureSkew)) {
		return reject(CodeFutureTimestamp, "timestamp lies in the future")
	}

	if role == auth.RoleAdmin {
		if claimed.Before(now.Add(-CorrectionWindow)) {
			return reject(CodeCorrectionWindow, "timestamp exceeds the 7-day correction window")
		}
		return nil
	}

	if beforeCalendarDay(claimed, now) {
		return reject(CodePastDateAdmin, "past-date timestamps require an admin")
	}
	if claimed.Before(now.Add(-StaleWindow)) {
		return reject(CodeStaleAdmin, "stale timestamps require an admin")
	}
	return nil
}

// beforeCalendarDay compares calendar dates in now's location.
func beforeCalendarDay(claimed, now time.Time) bool {
	claimed = claimed.In(now.Location())
	cy, cm, cd := claimed.Date()
	ny, nm, nd := now.Date()
	if cy != ny {
		return cy < ny
	}
	if cm != nm {
		return cm < nm
	}
	return cd < nd
}

// dayStart returns midnight of t in its location.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// sessionWindowStart bounds the "open session" search: today for regular
// actors, the full correction window for admins.
func sessionWindowStart(now time.Time, role string) time.Time {
	if role == auth.RoleAdmin {
		return now.Add(-CorrectionWindow)
	}
	return dayStart(now)
}
