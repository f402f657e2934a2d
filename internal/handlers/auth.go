package handlers

import (
	"net/http"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/auth"
)

// LoginPageData holds data for the admin login template
type LoginPageData struct {
	StoreName string
	Error     string
}

func (h *Handlers) loginPage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	storeName, _ := h.Settings.GetStoreName(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	h.templates.AdminLogin.Execute(w, LoginPageData{StoreName: storeName, Error: msg})
}

func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.Auth.GetSessionFromRequest(r) {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}
	h.loginPage(w, r, http.StatusOK, "")
}

// handleLogin checks the admin password. A failed attempt re-renders the
// form with a 401.
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	token, ok := h.Auth.Login(r.FormValue("password"))
	if !ok {
		h.Log.Warn("Admin login failed", "remote", r.RemoteAddr)
		h.loginPage(w, r, http.StatusUnauthorized, "Invalid password")
		return
	}

	h.Log.Info("Admin logged in", "remote", r.RemoteAddr)
	auth.SetSessionCookie(w, token)
	http.Redirect(w, r, "/admin", http.StatusFound)
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}
	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}
