package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/payraise-portal/internal/access"
	"github.com/frahmantamala/payraise-portal/internal/session"
	"github.com/frahmantamala/payraise-portal/internal/transport"
	"github.com/frahmantamala/payraise-portal/pkg/logger"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResult, error)
	Logout(ctx context.Context, caller session.Context) error
}

type Handler struct {
	*transport.BaseHandler
	Service      ServiceAPI
	Policy       access.Checker
	SecureCookie bool
}

func NewHandler(svc ServiceAPI, policy access.Checker, secureCookie bool) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler:  transport.NewBaseHandler(lg),
		Service:      svc,
		Policy:       policy,
		SecureCookie: secureCookie,
	}
}

type loginInfo struct {
	Message string      `json:"message"`
	Method  string      `json:"method"`
	Fields  []string    `json:"fields"`
	User    *MeResponse `json:"user,omitempty"`
}

// LoginInfo handles GET /auth/login, the target of every login redirect.
func (h *Handler) LoginInfo(w http.ResponseWriter, r *http.Request) {
	info := loginInfo{
		Message: "log in by posting your username and password to this endpoint",
		Method:  http.MethodPost,
		Fields:  []string{"username", "password"},
	}
	if caller := session.FromContext(r.Context()); caller.Authenticated() {
		me := NewMeResponse(caller, h.Policy)
		info.User = &me
	}
	h.WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	h.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.Session.ExpiresAt,
		User:      NewMeResponse(result.Session, h.Policy),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	caller := session.FromContext(r.Context())
	if err := h.Service.Logout(r.Context(), caller); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	caller := session.FromContext(r.Context())
	if !caller.Authenticated() {
		transport.RedirectToLogin(w, r)
		return
	}
	h.WriteJSON(w, http.StatusOK, NewMeResponse(caller, h.Policy))
}
