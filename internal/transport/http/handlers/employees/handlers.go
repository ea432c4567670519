package employeeshandler

import (
	"encoding/json"
	"errors"
	"image/png"
	"net/http"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/go-chi/chi/v5"

	"pointage/internal/auth"
	"pointage/internal/domain/attendance"
	"pointage/internal/domain/employees"
	"pointage/internal/domain/face"
	"pointage/internal/platform/config"
	"pointage/internal/transport/http/api"
	"pointage/internal/transport/http/middleware"
	"pointage/internal/transport/http/shared"
)

const badgeSizePx = 256

type Handler struct {
	Store employees.StoreAPI
	QR    *attendance.QRCodec
	Cfg   config.Config
}

func NewHandler(store employees.StoreAPI, qrCodec *attendance.QRCodec, cfg config.Config) *Handler {
	return &Handler{Store: store, QR: qrCodec, Cfg: cfg}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/", h.handleCreate)
		r.Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Delete("/{employeeID}", h.handleDelete)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/{employeeID}/face", h.handleEnrollFace)
		r.Get("/{employeeID}/badge", h.handleBadge)
	})
}

type employeePayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	HireDate  string `json:"hireDate"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, "employees", list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "is required")
	v.Required("lastName", payload.LastName, "is required")
	v.Required("email", payload.Email, "is required")
	v.Required("password", payload.Password, "is required")
	if !auth.ValidRole(payload.Role) {
		v.Add("role", "must be one of employee, stagiaire, admin")
	}
	hireDate, _ := v.Date("hireDate", payload.HireDate)
	if v.Reject(w, requestID) {
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_error", "failed to hash password", requestID)
		return
	}

	emp := employees.Employee{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Role:      payload.Role,
		HireDate:  hireDate,
	}
	id, err := h.Store.Create(r.Context(), emp, hash)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create employee", requestID)
		return
	}

	created, err := h.Store.FindByID(r.Context(), id)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to load created employee", requestID)
		return
	}
	api.Created(w, "employee created", created, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
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

	emp, err := h.Store.FindByID(r.Context(), employeeID)
	if err != nil {
		h.writeStoreError(w, requestID, err)
		return
	}
	api.Success(w, "employee", emp, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "is required")
	v.Required("lastName", payload.LastName, "is required")
	v.Required("email", payload.Email, "is required")
	if !auth.ValidRole(payload.Role) {
		v.Add("role", "must be one of employee, stagiaire, admin")
	}
	hireDate, _ := v.Date("hireDate", payload.HireDate)
	if v.Reject(w, requestID) {
		return
	}

	emp := employees.Employee{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Role:      payload.Role,
		HireDate:  hireDate,
	}
	if err := h.Store.Update(r.Context(), employeeID, emp); err != nil {
		h.writeStoreError(w, requestID, err)
		return
	}

	updated, err := h.Store.FindByID(r.Context(), employeeID)
	if err != nil {
		h.writeStoreError(w, requestID, err)
		return
	}
	api.Success(w, "employee updated", updated, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if err := h.Store.Delete(r.Context(), employeeID); err != nil {
		h.writeStoreError(w, requestID, err)
		return
	}
	api.Success(w, "employee deleted", map[string]string{"status": "deleted"}, requestID)
}

func (h *Handler) handleEnrollFace(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload struct {
		FaceTemplate []float64 `json:"faceTemplate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if !face.ValidDescriptor(payload.FaceTemplate) {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{
			{Field: "faceTemplate", Reason: "must contain exactly 128 finite components"},
		})
		return
	}

	if err := h.Store.SetFaceDescriptor(r.Context(), employeeID, payload.FaceTemplate); err != nil {
		h.writeStoreError(w, requestID, err)
		return
	}
	api.Success(w, "face template enrolled", map[string]string{"status": "enrolled"}, requestID)
}

// handleBadge renders the employee's entry QR code as a PNG. The encoded
// payload is a signed token the scan-qr endpoint verifies.
func (h *Handler) handleBadge(w http.ResponseWriter, r *http.Request) {
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
	if _, err := h.Store.FindByID(r.Context(), employeeID); err != nil {
		h.writeStoreError(w, requestID, err)
		return
	}

	token, err := h.QR.Mint(employeeID, h.Cfg.QRTokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "badge_failed", "failed to mint badge token", requestID)
		return
	}

	code, err := qr.Encode(token, qr.M, qr.Auto)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "badge_failed", "failed to encode badge", requestID)
		return
	}
	scaled, err := barcode.Scale(code, badgeSizePx, badgeSizePx)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "badge_failed", "failed to scale badge", requestID)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, scaled); err != nil {
		// Headers are already out; nothing sensible left to report.
		return
	}
}

func (h *Handler) writeStoreError(w http.ResponseWriter, requestID string, err error) {
	if errors.Is(err, employees.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
		return
	}
	api.Fail(w, http.StatusInternalServerError, "store_error", "employee store operation failed", requestID)
}
