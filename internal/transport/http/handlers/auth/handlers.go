package authhandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"pointage/internal/auth"
	"pointage/internal/domain/employees"
	"pointage/internal/platform/config"
	"pointage/internal/transport/http/api"
	"pointage/internal/transport/http/middleware"
	"pointage/internal/transport/http/shared"
)

type Handler struct {
	Store employees.StoreAPI
	Cfg   config.Config
}

func NewHandler(store employees.StoreAPI, cfg config.Config) *Handler {
	return &Handler{Store: store, Cfg: cfg}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Post("/mfa/setup", h.handleMFASetup)
			r.Post("/mfa/activate", h.handleMFAActivate)
			r.Post("/mfa/disable", h.handleMFADisable)
		})
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode"`
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "is required")
	v.Required("password", payload.Password, "is required")
	if v.Reject(w, requestID) {
		return
	}

	id, hash, role, totpSecret, err := h.Store.CredentialsByEmail(r.Context(), payload.Email)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
		return
	}
	if err := auth.CheckPassword(hash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
		return
	}

	if totpSecret != "" {
		if payload.MFACode == "" {
			api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", requestID)
			return
		}
		if !totp.Validate(payload.MFACode, totpSecret) {
			api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", requestID)
			return
		}
	}

	token, err := auth.GenerateToken(h.Cfg.JWTSecret, auth.Claims{EmployeeID: id, Role: role}, h.Cfg.SessionTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.Cfg.SessionTTL),
		HttpOnly: true,
		Secure:   h.Cfg.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})
	api.Success(w, "logged in", map[string]any{
		"token": token,
		"user":  map[string]string{"id": id, "role": role},
	}, requestID)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	api.Success(w, "logged out", nil, middleware.GetRequestID(r.Context()))
}

// handleMFASetup issues a fresh TOTP secret in a disabled state; the caller
// must confirm a code via /mfa/activate before it is enforced at login.
func (h *Handler) handleMFASetup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      h.Cfg.TOTPIssuer,
		AccountName: principal.EmployeeID,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to generate mfa secret", requestID)
		return
	}
	if err := h.Store.SetTOTPSecret(r.Context(), principal.EmployeeID, key.Secret(), false); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to store mfa secret", requestID)
		return
	}

	api.Success(w, "mfa secret generated", map[string]string{
		"secret":     key.Secret(),
		"otpauthUrl": key.URL(),
	}, requestID)
}

func (h *Handler) handleMFAActivate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload mfaCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	secret, _, err := h.Store.TOTPSecret(r.Context(), principal.EmployeeID)
	if err != nil || secret == "" {
		api.Fail(w, http.StatusBadRequest, "mfa_missing", "mfa setup required", requestID)
		return
	}
	if !totp.Validate(payload.Code, secret) {
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", "invalid mfa code", requestID)
		return
	}
	if err := h.Store.SetTOTPSecret(r.Context(), principal.EmployeeID, secret, true); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_activate_failed", "failed to enable mfa", requestID)
		return
	}
	api.Success(w, "mfa enabled", map[string]string{"status": "enabled"}, requestID)
}

func (h *Handler) handleMFADisable(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload mfaCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	secret, enabled, err := h.Store.TOTPSecret(r.Context(), principal.EmployeeID)
	if err != nil || secret == "" || !enabled {
		api.Fail(w, http.StatusBadRequest, "mfa_missing", "mfa is not enabled", requestID)
		return
	}
	if !totp.Validate(payload.Code, secret) {
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", "invalid mfa code", requestID)
		return
	}
	if err := h.Store.SetTOTPSecret(r.Context(), principal.EmployeeID, "", false); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_disable_failed", "failed to disable mfa", requestID)
		return
	}
	api.Success(w, "mfa disabled", map[string]string{"status": "disabled"}, requestID)
}
