package documentshandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pointage/internal/auth"
	"pointage/internal/domain/attendance"
	"pointage/internal/domain/documents"
	"pointage/internal/domain/employees"
	"pointage/internal/transport/http/api"
	"pointage/internal/transport/http/middleware"
)

type Handler struct {
	Documents  *documents.Service
	Attendance *attendance.Service
	Employees  employees.StoreAPI
}

func NewHandler(docs *documents.Service, att *attendance.Service, store employees.StoreAPI) *Handler {
	return &Handler{Documents: docs, Attendance: att, Employees: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.Post("/attestation/{employeeID}", h.handleAttestation)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/payslip/{employeeID}", h.handlePayslip)
	})
}

func (h *Handler) handleAttestation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if !principal.CanActFor(employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not permitted for this employee", requestID)
		return
	}

	emp, err := h.Employees.FindByID(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, employees.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to load employee", requestID)
		return
	}

	location, err := h.Documents.Attestation(r.Context(), emp)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_failed", "failed to generate attestation", requestID)
		return
	}
	api.Created(w, "attestation generated", map[string]string{"location": location}, requestID)
}

// handlePayslip generates a payslip stamped with the presence summary for the
// requested period, defaulting to the current month.
func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	employeeID := chi.URLParam(r, "employeeID")

	var payload struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	emp, err := h.Employees.FindByID(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, employees.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to load employee", requestID)
		return
	}

	spec := attendance.PeriodSpec{StartDate: payload.StartDate, EndDate: payload.EndDate}
	if spec.StartDate != "" && spec.EndDate == "" {
		spec.Period = "monthly"
	}
	report, err := h.Attendance.Report(r.Context(), principal, employeeID, spec)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build presence summary", requestID)
		return
	}

	location, err := h.Documents.Payslip(r.Context(), emp, documents.PayslipSummary{
		PeriodStart: report.StartDate,
		PeriodEnd:   report.EndDate,
		TotalDays:   report.TotalDays,
		TotalHours:  report.TotalHours,
		LateDays:    report.LateDays,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_failed", "failed to generate payslip", requestID)
		return
	}
	api.Created(w, "payslip generated", map[string]string{"location": location}, requestID)
}
