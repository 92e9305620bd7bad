package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/behaviorchart/internal/auth"
	"github.com/dukerupert/behaviorchart/internal/model"
	"github.com/dukerupert/behaviorchart/internal/store"
)

const (
	msgIncorrectPIN      = "Incorrect PIN"
	msgIncorrectAdminPIN = "Incorrect admin PIN"
)

// AuthHandler serves the two PIN gates. The user and admin sessions are
// granted and revoked independently of each other.
type AuthHandler struct {
	store    store.Store
	sessions *auth.Sessions
	renderer *Renderer
	logger   *slog.Logger
}

func NewAuthHandler(s store.Store, sessions *auth.Sessions, renderer *Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		store:    s,
		sessions: sessions,
		renderer: renderer,
		logger:   logger,
	}
}

type loginPage struct {
	Error string
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, "login.html", loginPage{})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ok, err := h.checkPIN(r, model.RoleUser)
	if err != nil {
		serverError(w, h.logger, "user login", err)
		return
	}
	if !ok {
		h.logger.Warn("user login failed")
		h.renderer.Render(w, "login.html", loginPage{Error: msgIncorrectPIN})
		return
	}
	if err := h.sessions.Issue(w, r, model.RoleUser); err != nil {
		serverError(w, h.logger, "issue user session", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w, model.RoleUser)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) AdminLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, "admin_login.html", loginPage{})
}

func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	ok, err := h.checkPIN(r, model.RoleAdmin)
	if err != nil {
		serverError(w, h.logger, "admin login", err)
		return
	}
	if !ok {
		h.logger.Warn("admin login failed")
		h.renderer.Render(w, "admin_login.html", loginPage{Error: msgIncorrectAdminPIN})
		return
	}
	if err := h.sessions.Issue(w, r, model.RoleAdmin); err != nil {
		serverError(w, h.logger, "issue admin session", err)
		return
	}
	http.Redirect(w, r, "/rewards", http.StatusSeeOther)
}

func (h *AuthHandler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w, model.RoleAdmin)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AuthHandler) checkPIN(r *http.Request, role model.Role) (bool, error) {
	hash, err := h.store.PINHash(r.Context(), role)
	if err != nil {
		return false, err
	}
	return auth.VerifyPIN(hash, r.FormValue("pin")), nil
}
