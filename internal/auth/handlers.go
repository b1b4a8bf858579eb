package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/EmpoweredVote/booth-results/internal/utils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const sessionCookieName = "session_id"

type Handler struct {
	svc          *Service
	log          *zap.Logger
	cookieSecure bool
}

func NewHandler(svc *Service, log *zap.Logger, cookieSecure bool) *Handler {
	return &Handler{svc: svc, log: log.Named("auth"), cookieSecure: cookieSecure}
}

// Production serves the frontend from another origin, which needs SameSite=None
// and therefore Secure. Local dev over plain HTTP falls back to Lax.
func (h *Handler) sessionCookie(value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Expires:  expires,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cookieSecure {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
		return
	}

	user, err := h.svc.Register(r.Context(), in.Email, in.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.log.Info("user registered", zap.String("user_id", user.UserID))
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
		return
	}

	user, sess, err := h.svc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(sess.SessionID, sess.ExpiresAt))
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Couldn't find cookie"})
		return
	}

	if err := h.svc.Logout(r.Context(), cookie.Value); err != nil {
		h.writeError(w, r, err)
		return
	}

	expired := h.sessionCookie("", time.Unix(0, 0))
	expired.MaxAge = -1
	http.SetCookie(w, expired)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	user, err := h.svc.User(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var in updatePassword
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Current and new password are required"})
		return
	}

	if err := h.svc.ChangePassword(r.Context(), userID, in.CurrentPassword, in.NewPassword); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"roles": h.svc.Roles()})
}

func (h *Handler) UpdateRoles(w http.ResponseWriter, r *http.Request) {
	var in updateRoles
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
		return
	}

	user, err := h.svc.SetRoles(r.Context(), chi.URLParam(r, "user_id"), in.Roles)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.log.Info("roles updated", zap.String("user_id", user.UserID), zap.Strings("roles", user.Roles))
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
	case errors.Is(err, ErrEmailTaken):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Email already registered"})
	case errors.Is(err, ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	case errors.Is(err, ErrSessionNotFound):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Couldn't find session"})
	case errors.Is(err, ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
	default:
		h.log.Error("auth request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
