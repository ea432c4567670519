package attendance

import "errors"

// Infrastructure-level sentinels. Policy failures use Rejection instead.
var (
	ErrNoOpenSession    = errors.New("no open attendance session")
	ErrExitBeforeEntry  = errors.New("exit does not follow entry")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrNotAuthorized    = errors.New("not authorized for this employee")
)

// Rejection codes. Stable; the HTTP layer keys status mapping off them.
const (
	CodeFutureTimestamp  = "future_timestamp"
	CodePastDateAdmin    = "past_date_requires_admin"
	CodeStaleAdmin       = "stale_timestamp_requires_admin"
	CodeCorrectionWindow = "correction_window_exceeded"
	CodeOutsideGeofence  = "outside_geofence"
	CodeQRInvalid        = "qr_invalid"
	CodeQRExpired        = "qr_expired"
	CodeFaceNotEnrolled  = "face_not_enrolled"
	CodeFaceNoMatch      = "face_not_recognized"
	CodeOpenSession      = "open_session_exists"
	CodeExitBeforeEntry  = "exit_before_entry"
)

// Rejection is an expected policy failure: the event was understood and
// refused. It is returned as a value so callers can distinguish it from
// infrastructure errors.
type Rejection struct {
	Code    string
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

func reject(code, message string) *Rejection {
	return &Rejection{Code: code, Message: message}
}

// AsRejection unwraps err into a Rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
