package notifications

import (
	"context"
	"log/slog"
	"time"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	store        StoreAPI
	mailer       Mailer
	from         string
	emailTimeout time.Duration
}

func New(store StoreAPI, mailer Mailer, from string, emailTimeout time.Duration) *Service {
	if emailTimeout <= 0 {
		emailTimeout = 5 * time.Second
	}
	return &Service{store: store, mailer: mailer, from: from, emailTimeout: emailTimeout}
}

// Notify persists the notification and dispatches the email without ever
// surfacing a failure to the caller. The attendance outcome must not depend
// on the mail provider.
func (s *Service) Notify(ctx context.Context, employeeID, ntype, message string) {
	if !ValidType(ntype) {
		slog.Warn("dropping notification with unknown type", "type", ntype)
		return
	}
	if err := s.store.CreateNotification(ctx, employeeID, ntype, message); err != nil {
		slog.Warn("notification insert failed", "employeeId", employeeID, "type", ntype, "err", err)
		return
	}
	if s.mailer == nil {
		return
	}

	email, err := s.store.EmployeeEmail(ctx, employeeID)
	if err != nil || email == "" {
		if err != nil {
			slog.Warn("notification email lookup failed", "employeeId", employeeID, "err", err)
		}
		return
	}

	// Detached from the request context so a slow provider cannot stall the
	// caller; bounded so it cannot hang forever either.
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), s.emailTimeout)
		defer cancel()
		if err := s.mailer.Send(sendCtx, s.from, email, subjectFor(ntype), message); err != nil {
			slog.Warn("notification email send failed", "employeeId", employeeID, "type", ntype, "err", err)
		}
	}()
}

func (s *Service) List(ctx context.Context, employeeID string, limit, offset int) ([]Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListForEmployee(ctx, employeeID, limit, offset)
}

func (s *Service) Count(ctx context.Context, employeeID string) (int, error) {
	return s.store.CountForEmployee(ctx, employeeID)
}

func (s *Service) MarkRead(ctx context.Context, employeeID, notificationID string) error {
	return s.store.MarkRead(ctx, employeeID, notificationID)
}

// Sweep deletes read notifications older than 30 days.
func (s *Service) Sweep(ctx context.Context, now time.Time) (int64, error) {
	return s.store.DeleteReadOlderThan(ctx, now.AddDate(0, 0, -30))
}

func subjectFor(ntype string) string {
	switch ntype {
	case TypeLateArrival:
		return "Late arrival recorded"
	case TypeLocationIssue:
		return "Check-in outside the allowed area"
	case TypeExpiredQR:
		return "Expired QR code presented"
	case TypeLeaveRequest:
		return "Leave request submitted"
	case TypeLeaveApproved:
		return "Leave request approved"
	case TypeLeaveRejected:
		return "Leave request rejected"
	}
	return "Notification"
}
