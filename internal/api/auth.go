package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/erazemk/mithai/internal/auth"
	"github.com/erazemk/mithai/internal/shop"
)

// AuthHandler handles account endpoints.
type AuthHandler struct {
	Shop         *shop.Service
	SecureCookie bool
	Log          *zap.Logger
}

type accountView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd shop.RegisterCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	session, err := h.Shop.Register(r.Context(), cmd)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	h.setSessionCookie(w, session.Token)
	jsonSuccess(w, http.StatusCreated, envelope{"message": "Account created"})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var cmd shop.LoginCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	session, err := h.Shop.Login(r.Context(), cmd)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	h.setSessionCookie(w, session.Token)
	a := session.Account
	jsonSuccess(w, http.StatusOK, envelope{
		"message": "Welcome back " + a.Name,
		"user":    accountView{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role},
	})
}

// Logout handles GET /api/auth/logout. It only clears the cookie; issued
// tokens stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie("", -1))
	jsonSuccess(w, http.StatusOK, envelope{"message": "Logged out successfully."})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, h.cookie(token, int(auth.TokenExpiry/time.Second)))
}

func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}
