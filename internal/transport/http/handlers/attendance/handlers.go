package attendancehandler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pointage/internal/auth"
	"pointage/internal/domain/attendance"
	"pointage/internal/domain/face"
	"pointage/internal/domain/geo"
	"pointage/internal/transport/http/api"
	"pointage/internal/transport/http/middleware"
	"pointage/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
}

func NewHandler(service *attendance.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Post("/", h.handleManualEntry)
		r.Post("/scan-qr", h.handleScanQR)
		r.Post("/facial", h.handleFacialEntry)
		r.Post("/exit", h.handleExit)
		r.Get("/employee/{employeeID}", h.handleList)
		r.Get("/report/{employeeID}", h.handleReport)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/reports", h.handleFleetReports)
	})
}

// locationPayload is the GeoJSON-style body shape: coordinates as [lng, lat].
type locationPayload struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates"`
}

func (l locationPayload) point() (geo.Point, bool) {
	if len(l.Coordinates) != 2 {
		return geo.Point{}, false
	}
	lng, lat := l.Coordinates[0], l.Coordinates[1]
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return geo.Point{}, false
	}
	return geo.Point{Lat: lat, Lng: lng}, true
}

func (h *Handler) handleManualEntry(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		EmployeeID string          `json:"employeeId"`
		EntryTime  string          `json:"entryTime"`
		Location   locationPayload `json:"location"`
		Method     string          `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Method == "" {
		payload.Method = attendance.MethodManual
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	v.Enum("method", payload.Method, []string{attendance.MethodManual}, "only manual entries are accepted on this endpoint")
	entryTime, _ := v.Time("entryTime", payload.EntryTime)
	loc, locOK := payload.Location.point()
	if !locOK {
		v.Add("location", "must carry [lng, lat] coordinates")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rec, err := h.Service.RecordManual(r.Context(), principal, payload.EmployeeID, entryTime, loc)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.Created(w, "attendance entry recorded", rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleScanQR(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		QRData    string          `json:"qrData"`
		EntryTime string          `json:"entryTime"`
		Location  locationPayload `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("qrData", payload.QRData, "is required")
	entryTime, _ := v.Time("entryTime", payload.EntryTime)
	loc, locOK := payload.Location.point()
	if !locOK {
		v.Add("location", "must carry [lng, lat] coordinates")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rec, err := h.Service.RecordQR(r.Context(), principal, payload.QRData, entryTime, loc)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.Created(w, "attendance entry recorded", rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleFacialEntry(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		EmployeeID   string          `json:"employeeId"`
		FaceTemplate []float64       `json:"faceTemplate"`
		EntryTime    string          `json:"entryTime"`
		Location     locationPayload `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	if !face.ValidDescriptor(payload.FaceTemplate) {
		v.Add("faceTemplate", "must contain exactly 128 finite components")
	}
	entryTime, _ := v.Time("entryTime", payload.EntryTime)
	loc, locOK := payload.Location.point()
	if !locOK {
		v.Add("location", "must carry [lng, lat] coordinates")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rec, err := h.Service.RecordFacial(r.Context(), principal, payload.EmployeeID, payload.FaceTemplate, entryTime, loc)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.Created(w, "attendance entry recorded", rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExit(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		EmployeeID string          `json:"employeeId"`
		ExitTime   string          `json:"exitTime"`
		Location   locationPayload `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	exitTime, _ := v.Time("exitTime", payload.ExitTime)
	loc, locOK := payload.Location.point()
	if !locOK {
		v.Add("location", "must carry [lng, lat] coordinates")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rec, err := h.Service.RecordExit(r.Context(), principal, payload.EmployeeID, exitTime, loc)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.Success(w, "attendance exit recorded", rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.Service.ListForEmployee(r.Context(), principal, employeeID, limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.Success(w, "attendance records", records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	spec := periodSpecFromQuery(r)

	report, err := h.Service.Report(r.Context(), principal, employeeID, spec)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.Success(w, "attendance report", report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleFleetReports(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	reports, err := h.Service.FleetReport(r.Context(), principal, periodSpecFromQuery(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.Success(w, "attendance reports", reports, middleware.GetRequestID(r.Context()))
}

func periodSpecFromQuery(r *http.Request) attendance.PeriodSpec {
	query := r.URL.Query()
	return attendance.PeriodSpec{
		Period:    query.Get("period"),
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())

	if rej, ok := attendance.AsRejection(err); ok {
		status := http.StatusBadRequest
		if rej.Code == attendance.CodeOpenSession {
			status = http.StatusConflict
		}
		api.Fail(w, status, rej.Code, rej.Message, requestID)
		return
	}

	switch {
	case errors.Is(err, attendance.ErrNotAuthorized):
		api.Fail(w, http.StatusForbidden, "forbidden", "not permitted for this employee", requestID)
	case errors.Is(err, attendance.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
	case errors.Is(err, attendance.ErrNoOpenSession):
		api.Fail(w, http.StatusNotFound, "no_open_session", "no open attendance session found", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "attendance_failed", "attendance operation failed", requestID)
	}
}
