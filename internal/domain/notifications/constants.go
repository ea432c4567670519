package notifications

const (
	TypeLateArrival   = "late_arrival"
	TypeLocationIssue = "location_issue"
	TypeExpiredQR     = "expired_qr"
	TypeLeaveRequest  = "leave_request"
	TypeLeaveApproved = "leave_approved"
	TypeLeaveRejected = "leave_rejected"
)

// RetentionAge is how long read notifications are kept before the sweep
// deletes them.
const RetentionAge = "30 days"

func ValidType(ntype string) bool {
	switch ntype {
	case TypeLateArrival, TypeLocationIssue, TypeExpiredQR,
		TypeLeaveRequest, TypeLeaveApproved, TypeLeaveRejected:
		return true
	}
	return false
}
