package attendance

import (
	"encoding/json"
	"time"
)

const (
	MethodManual = "manual"
	MethodQR     = "qr"
	MethodFacial = "facial"
)

func ValidMethod(method string) bool {
	switch method {
	case MethodManual, MethodQR, MethodFacial:
		return true
	}
	return false
}

type Record struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employeeId"`
	EntryTime   time.Time  `json:"entryTime"`
	EntryLat    float64    `json:"entryLat"`
	EntryLng    float64    `json:"entryLng"`
	EntryMethod string     `json:"entryMethod"`
	ExitTime    *time.Time `json:"exitTime,omitempty"`
	ExitLat     *float64   `json:"exitLat,omitempty"`
	ExitLng     *float64   `json:"exitLng,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// WorkingHours derives the session duration. Defined only once both
// timestamps exist; an open session reports false.
func (r Record) WorkingHours() (float64, bool) {
	if r.ExitTime == nil {
		return 0, false
	}
	return r.ExitTime.Sub(r.EntryTime).Hours(), true
}

func (r Record) Open() bool {
	return r.ExitTime == nil
}

// MarshalJSON includes workingHours so it is always derived, never stored.
func (r Record) MarshalJSON() ([]byte, error) {
	type alias Record
	out := struct {
		alias
		WorkingHours *float64 `json:"workingHours,omitempty"`
	}{alias: alias(r)}
	if hours, ok := r.WorkingHours(); ok {
		out.WorkingHours = &hours
	}
	return json.Marshal(out)
}
