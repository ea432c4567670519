package leave

import "context"

type StoreAPI interface {
	CreateRequest(ctx context.Context, req Request) (string, error)
	GetRequest(ctx context.Context, requestID string) (*Request, error)
	ListRequests(ctx context.Context, employeeID string, limit, offset int) ([]Request, error)
	SetStatus(ctx context.Context, requestID, status, decidedBy string) error
}
