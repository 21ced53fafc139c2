package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/HuonT/Writers-Tome/internal/auth/middleware"
	"github.com/HuonT/Writers-Tome/internal/badge"
	"github.com/HuonT/Writers-Tome/internal/course"
)

// GET /badges — the static catalog, grouped by module.
func BadgeCatalogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := map[string][]badge.Badge{}
		for _, m := range course.Modules {
			out[m.ID] = badge.ModuleBadges(m.ID)
		}
		writeJSON(w, out)
	}
}

// GET /users/me/badges — the caller's earned list, oldest first.
func EarnedBadgesHandler(store badge.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		earned, err := store.LoadEarned(r.Context(), sub)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if earned == nil {
			earned = []badge.Badge{}
		}
		writeJSON(w, earned)
	}
}

// GET /course/modules — static curriculum config.
func ModulesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, course.Modules)
	}
}

// GET /course/modules/{moduleID}/quiz
func QuizHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moduleID := chi.URLParam(r, "moduleID")
		qs := course.QuizQuestions(moduleID)
		if qs == nil {
			qs = []course.QuizQuestion{}
		}
		writeJSON(w, qs)
	}
}

// GET /course/categories — forum category catalog.
func CategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, course.PostCategories)
	}
}
