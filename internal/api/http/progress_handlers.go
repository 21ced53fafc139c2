package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/HuonT/Writers-Tome/internal/auth/middleware"
	"github.com/HuonT/Writers-Tome/internal/badge"
	"github.com/HuonT/Writers-Tome/internal/course"
	"github.com/HuonT/Writers-Tome/internal/progress"
	"github.com/HuonT/Writers-Tome/internal/project"
	syncx "github.com/HuonT/Writers-Tome/internal/sync"
)

// PUT /projects/{projectID}/progress — the debounced whole-document choke
// point: the client collapses bursty edits and ships the latest snapshot.
func UpdateProgressHandler(svc *project.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var cp progress.CourseProgress
		if err := json.NewDecoder(r.Body).Decode(&cp); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		p, err := svc.UpdateProgress(r.Context(), sub, chi.URLParam(r, "projectID"), cp)
		if err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}
		writeJSON(w, p)
	}
}

// GET /projects/{projectID}/progress/summary
func ProgressSummaryHandler(svc *project.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		p, err := svc.Get(r.Context(), sub, chi.URLParam(r, "projectID"))
		if err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}
		perModule := map[string]int{}
		for _, m := range course.Modules {
			perModule[m.ID] = progress.ModulePercent(m.ID, p.Progress)
		}
		writeJSON(w, map[string]any{
			"modules": perModule,
			"overall": progress.OverallPercent(p.Progress),
		})
	}
}

// POST /projects/{projectID}/modules/{moduleID}/topics/{topicID}/complete
func CompleteTopicHandler(svc *project.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		p, err := svc.Get(r.Context(), sub, chi.URLParam(r, "projectID"))
		if err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}
		cp := progress.CompleteTopic(p.Progress, chi.URLParam(r, "moduleID"), chi.URLParam(r, "topicID"))
		p, err = svc.UpdateProgress(r.Context(), sub, p.ID, cp)
		if err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}
		writeJSON(w, p)
	}
}

// POST /projects/{projectID}/modules/{moduleID}/exercises/{exerciseID}/complete
// Completion transitions additionally run one badge evaluation + persistence
// cycle; the newly earned badges ride along in the response.
func CompleteExerciseHandler(svc *project.Service, badges badge.Store, events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		moduleID := chi.URLParam(r, "moduleID")
		p, err := svc.Get(r.Context(), sub, chi.URLParam(r, "projectID"))
		if err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}
		cp := progress.CompleteExercise(p.Progress, moduleID, chi.URLParam(r, "exerciseID"))
		p, err = svc.UpdateProgress(r.Context(), sub, p.ID, cp)
		if err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}

		completed, total := 1, 1
		if moduleID == course.ModuleWorldbuilding {
			if cfg, ok := course.ModuleByID(moduleID); ok {
				completed = len(p.Progress.ModuleProgress[moduleID].CompletedExercises)
				total = cfg.TotalExercises
			}
		}
		earned := awardBadges(r.Context(), badges, events, sub, moduleID, completed, total, false)
		writeJSON(w, map[string]any{"project": p, "new_badges": earned})
	}
}

// PUT /projects/{projectID}/modules/{moduleID}/exercises/{exerciseID}/response
// Body: { "response": <string or structured value> }. Replace semantics per
// exercise id.
func SaveExerciseResponseHandler(svc *project.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var req struct {
			Response any `json:"response"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		p, err := svc.Get(r.Context(), sub, chi.URLParam(r, "projectID"))
		if err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}
		cp := progress.SaveExerciseResponse(p.Progress, chi.URLParam(r, "moduleID"), chi.URLParam(r, "exerciseID"), req.Response)
		p, err = svc.UpdateProgress(r.Context(), sub, p.ID, cp)
		if err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}
		writeJSON(w, p)
	}
}

// PUT /projects/{projectID}/modules/{moduleID}/quiz
// Body: { "question_id": "...", "user_answer": "...", "is_correct": true }.
// Answering the final question of a module's quiz runs the quiz badge cycle.
func SaveQuizResponseHandler(svc *project.Service, badges badge.Store, events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		moduleID := chi.URLParam(r, "moduleID")
		var req progress.QuizResponse
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if !course.HasQuizQuestion(moduleID, req.QuestionID) {
			http.Error(w, "unknown quiz question", 400)
			return
		}
		p, err := svc.Get(r.Context(), sub, chi.URLParam(r, "projectID"))
		if err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}
		cp := progress.SaveQuizResponse(p.Progress, moduleID, req)
		p, err = svc.UpdateProgress(r.Context(), sub, p.ID, cp)
		if err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}

		answered := len(progress.GetQuizResponses(p.Progress, moduleID))
		total := course.QuizQuestionCount(moduleID)
		var earned []badge.Badge
		if total > 0 && answered == total {
			earned = awardBadges(r.Context(), badges, events, sub, moduleID, answered, total, true)
		}
		writeJSON(w, map[string]any{"project": p, "new_badges": earned})
	}
}

// PUT /projects/{projectID}/current-module  { "module_id": "plot" }
func SetCurrentModuleHandler(svc *project.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var req struct {
			ModuleID string `json:"module_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		p, err := svc.Get(r.Context(), sub, chi.URLParam(r, "projectID"))
		if err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}
		cp := progress.SetCurrentModule(p.Progress, req.ModuleID)
		p, err = svc.UpdateProgress(r.Context(), sub, p.ID, cp)
		if err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}
		writeJSON(w, p)
	}
}

// awardBadges runs one engine evaluation and persists whatever it newly
// earned. Returns only the badges that were actually appended this call, so
// redundant triggers surface nothing to the client.
func awardBadges(ctx context.Context, store badge.Store, events *syncx.EventRepo, userID, moduleID string, completed, total int, isQuiz bool) []badge.Badge {
	already := map[string]bool{}
	if prior, err := store.LoadEarned(ctx, userID); err == nil {
		for _, b := range prior {
			already[b.ID] = true
		}
	}

	var newly []badge.Badge
	for _, b := range badge.CalculateBadgeProgress(moduleID, completed, total, isQuiz) {
		if !b.Earned || already[b.ID] {
			continue
		}
		if err := badge.SaveUserBadge(ctx, store, userID, b); err != nil {
			log.Printf("badge award %s for %s: %v", b.ID, userID, err)
			continue
		}
		newly = append(newly, b)
		if events != nil {
			data, _ := json.Marshal(b)
			if err := events.Append(ctx, syncx.Event{
				Type: syncx.TypeBadgeEarned, Key: b.ID, DataJSON: string(data),
			}); err != nil {
				log.Printf("badge event %s: %v", b.ID, err)
			}
		}
	}
	if newly == nil {
		newly = []badge.Badge{}
	}
	return newly
}
