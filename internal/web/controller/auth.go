package controller

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"wakawaka/internal/auth"
	"wakawaka/internal/web/viewmodels"
)

// Auth provides the login handlers.
type Auth struct {
	AuthService *auth.Service
	Templates   map[string]*template.Template
	IndexSlug   string
	Log         zerolog.Logger
}

// Register registers the auth routes.
func (a *Auth) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /login", a.loginGet)
	mux.HandleFunc("POST /login", a.loginPost)
	mux.HandleFunc("GET /logout", a.logout)
}

func (a *Auth) loginGet(w http.ResponseWriter, r *http.Request) {
	if err := a.Templates["login.html"].ExecuteTemplate(w, "layout.html", viewmodels.PageData{IndexSlug: a.IndexSlug}); err != nil {
		a.Log.Error().Err(err).Msg("error rendering login template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (a *Auth) loginPost(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	if _, err := a.AuthService.Login(w, r, username, password); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		if err := a.Templates["login.html"].ExecuteTemplate(w, "layout.html", viewmodels.PageData{
			IndexSlug:  a.IndexSlug,
			LoginError: "Invalid credentials",
		}); err != nil {
			a.Log.Error().Err(err).Msg("error rendering login template")
		}
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *Auth) logout(w http.ResponseWriter, r *http.Request) {
	a.AuthService.Logout(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}
