package leave

import (
	"errors"
	"time"
)

// ErrInvalidRange is returned when the requested end date precedes the start.
var ErrInvalidRange = errors.New("end date before start date")

// CalculateDays returns inclusive day count between start and end.
func CalculateDays(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return end.Sub(start).Hours()/24 + 1, nil
}
