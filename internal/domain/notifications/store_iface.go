package notifications

import (
	"context"
	"time"
)

type Notification struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

type StoreAPI interface {
	CreateNotification(ctx context.Context, employeeID, ntype, message string) error
	ListForEmployee(ctx context.Context, employeeID string, limit, offset int) ([]Notification, error)
	CountForEmployee(ctx context.Context, employeeID string) (int, error)
	MarkRead(ctx context.Context, employeeID, notificationID string) error
	DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	EmployeeEmail(ctx context.Context, employeeID string) (string, error)
}
