package leavehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pointage/internal/auth"
	"pointage/internal/domain/leave"
	"pointage/internal/transport/http/api"
	"pointage/internal/transport/http/middleware"
	"pointage/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
}

func NewHandler(service *leave.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave/requests", func(r chi.Router) {
		r.Post("/", h.handleSubmit)
		r.Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/{requestID}/approve", h.handleApprove)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/{requestID}/reject", h.handleReject)
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload struct {
		EmployeeID string `json:"employeeId"`
		StartDate  string `json:"startDate"`
		EndDate    string `json:"endDate"`
		Reason     string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.EmployeeID == "" {
		payload.EmployeeID = principal.EmployeeID
	}
	if !principal.CanActFor(payload.EmployeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not permitted for this employee", requestID)
		return
	}

	v := shared.NewValidator()
	startDate, _ := v.Date("startDate", payload.StartDate)
	endDate, _ := v.Date("endDate", payload.EndDate)
	v.Required("reason", payload.Reason, "is required")
	if v.Reject(w, requestID) {
		return
	}

	req, err := h.Service.Submit(r.Context(), leave.Request{
		EmployeeID: payload.EmployeeID,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     payload.Reason,
	})
	if err != nil {
		if errors.Is(err, leave.ErrInvalidRange) {
			api.Fail(w, http.StatusBadRequest, "invalid_range", "endDate must not precede startDate", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "submit_failed", "failed to submit leave request", requestID)
		return
	}
	api.Created(w, "leave request submitted", req, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	query := r.URL.Query()
	employeeID := query.Get("employeeId")
	if employeeID == "" {
		employeeID = principal.EmployeeID
	}
	if !principal.CanActFor(employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not permitted for this employee", requestID)
		return
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	list, err := h.Service.List(r.Context(), employeeID, limit, offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list leave requests", requestID)
		return
	}
	api.Success(w, "leave requests", list, requestID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Approve, "leave request approved")
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Reject, "leave request rejected")
}

type decision func(ctx context.Context, requestID, decidedBy string) (*leave.Request, error)

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn decision, message string) {
	requestID := middleware.GetRequestID(r.Context())
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	leaveID := chi.URLParam(r, "requestID")
	req, err := fn(r.Context(), leaveID, principal.EmployeeID)
	if err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "leave_not_found", "leave request not found or already decided", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "decide_failed", "failed to decide leave request", requestID)
		return
	}
	api.Success(w, message, req, requestID)
}
