package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	auth "github.com/HuonT/Writers-Tome/internal/auth/middleware"
	"github.com/HuonT/Writers-Tome/internal/user"
)

// POST /auth/signup  { "email": "...", "password": "...", "display_name": "..." }
func SignupHandler(users *user.SQLStore, a *auth.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email       string `json:"email"`
			Password    string `json:"password"`
			DisplayName string `json:"display_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.Email == "" || req.Password == "" {
			http.Error(w, "email and password required", 400)
			return
		}
		p, err := users.Create(r.Context(), req.Email, req.DisplayName, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrEmailTaken) {
				http.Error(w, "email already registered", http.StatusConflict)
				return
			}
			http.Error(w, err.Error(), 400)
			return
		}
		tok, err := a.IssueJWT(p.ID, p.Role)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		writeJSON(w, map[string]any{"access_token": tok, "user": p})
	}
}

// POST /auth/login  { "email": "...", "password": "..." }
func LoginHandler(users *user.SQLStore, a *auth.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		p, err := users.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		users.TouchLastActive(r.Context(), p.ID)
		tok, err := a.IssueJWT(p.ID, p.Role)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		writeJSON(w, map[string]any{"access_token": tok, "user": p})
	}
}

// GET /auth/display-name-available?name=...
// Fails open toward "available": a lookup error never blocks signup.
func DisplayNameCheckHandler(users *user.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			http.Error(w, "name required", 400)
			return
		}
		taken := users.IsDisplayNameTaken(r.Context(), name)
		writeJSON(w, map[string]bool{"available": !taken})
	}
}

// GET /users/me
func MeHandler(users *user.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		p, err := users.Get(r.Context(), sub)
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		writeJSON(w, p)
	}
}

// PUT /users/me  { "display_name": "...", "email_preferences": {...} }
func UpdateProfileHandler(users *user.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var req struct {
			DisplayName      string                `json:"display_name"`
			EmailPreferences user.EmailPreferences `json:"email_preferences"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if err := users.UpdateProfile(r.Context(), sub, req.DisplayName, req.EmailPreferences); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		p, err := users.Get(r.Context(), sub)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, p)
	}
}
