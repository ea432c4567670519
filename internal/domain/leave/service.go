package leave

import (
	"context"
	"fmt"

	"pointage/internal/domain/notifications"
)

type Notifier interface {
	Notify(ctx context.Context, employeeID, ntype, message string)
}

type Service struct {
	store    StoreAPI
	notifier Notifier
}

func NewService(store StoreAPI, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

func (s *Service) Submit(ctx context.Context, req Request) (*Request, error) {
	days, err := CalculateDays(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	req.Days = days

	id, err := s.store.CreateRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, req.EmployeeID, notifications.TypeLeaveRequest,
		fmt.Sprintf("Leave request submitted for %.1f day(s).", days))
	return s.store.GetRequest(ctx, id)
}

func (s *Service) List(ctx context.Context, employeeID string, limit, offset int) ([]Request, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListRequests(ctx, employeeID, limit, offset)
}

func (s *Service) Approve(ctx context.Context, requestID, decidedBy string) (*Request, error) {
	return s.decide(ctx, requestID, decidedBy, StatusApproved, notifications.TypeLeaveApproved, "Your leave request was approved.")
}

func (s *Service) Reject(ctx context.Context, requestID, decidedBy string) (*Request, error) {
	return s.decide(ctx, requestID, decidedBy, StatusRejected, notifications.TypeLeaveRejected, "Your leave request was rejected.")
}

func (s *Service) decide(ctx context.Context, requestID, decidedBy, status, ntype, message string) (*Request, error) {
	if err := s.store.SetStatus(ctx, requestID, status, decidedBy); err != nil {
		return nil, err
	}
	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, req.EmployeeID, ntype, message)
	return req, nil
}
