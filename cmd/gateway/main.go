package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	api "github.com/HuonT/Writers-Tome/internal/api/http"
	auth "github.com/HuonT/Writers-Tome/internal/auth/middleware"
	"github.com/HuonT/Writers-Tome/internal/badge"
	"github.com/HuonT/Writers-Tome/internal/config"
	"github.com/HuonT/Writers-Tome/internal/db"
	"github.com/HuonT/Writers-Tome/internal/forum"
	"github.com/HuonT/Writers-Tome/internal/project"
	"github.com/HuonT/Writers-Tome/internal/rbac"
	"github.com/HuonT/Writers-Tome/internal/storage"
	syncx "github.com/HuonT/Writers-Tome/internal/sync"
	"github.com/HuonT/Writers-Tome/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// --- Stores / services ---
	events := syncx.NewEventRepo(dbh)
	projects := project.NewService(project.NewSQLStore(dbh), &eventSink{repo: events, siteID: cfg.SiteID})
	badges := badge.NewSQLStore(dbh)
	users := user.NewSQLStore(dbh)
	posts := forum.NewSQLStore(dbh)

	backups, err := storage.NewFSStore(cfg.BackupBasePath)
	if err != nil {
		log.Fatalf("backup store: %v", err)
	}

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public surface
	r.Post("/auth/signup", api.SignupHandler(users, authSvc))
	r.Post("/auth/login", api.LoginHandler(users, authSvc))
	r.Get("/auth/display-name-available", api.DisplayNameCheckHandler(users))
	r.Get("/course/modules", api.ModulesHandler())
	r.Get("/course/modules/{moduleID}/quiz", api.QuizHandler())
	r.Get("/course/categories", api.CategoriesHandler())
	r.Get("/badges", api.BadgeCatalogHandler())

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, cfg.Mode == config.ModeOffline))

		pr.Get("/users/me", api.MeHandler(users))
		pr.With(rbac.Require("user:edit-own")).Put("/users/me", api.UpdateProfileHandler(users))
		pr.With(rbac.Require("badge:view-own")).Get("/users/me/badges", api.EarnedBadgesHandler(badges))

		pr.Route("/projects", func(jr chi.Router) {
			jr.With(rbac.Require("project:create")).Post("/", api.CreateProjectHandler(projects))
			jr.With(rbac.Require("project:view-own")).Get("/", api.ListProjectsHandler(projects))
			jr.With(rbac.Require("project:import")).Post("/import", api.ImportProjectHandler(projects))

			jr.With(rbac.Require("project:view-own")).Get("/{projectID}", api.GetProjectHandler(projects))
			jr.With(rbac.Require("project:edit-own")).Put("/{projectID}/name", api.RenameProjectHandler(projects))
			jr.With(rbac.Require("project:delete-own")).Delete("/{projectID}", api.DeleteProjectHandler(projects))
			jr.With(rbac.Require("project:export")).Get("/{projectID}/export", api.ExportProjectHandler(projects, backups))

			jr.With(rbac.Require("project:edit-own")).Put("/{projectID}/progress", api.UpdateProgressHandler(projects))
			jr.With(rbac.Require("project:view-own")).Get("/{projectID}/progress/summary", api.ProgressSummaryHandler(projects))
			jr.With(rbac.Require("project:edit-own")).Put("/{projectID}/current-module", api.SetCurrentModuleHandler(projects))

			jr.With(rbac.Require("project:edit-own")).
				Post("/{projectID}/modules/{moduleID}/topics/{topicID}/complete", api.CompleteTopicHandler(projects))
			jr.With(rbac.Require("project:edit-own")).
				Post("/{projectID}/modules/{moduleID}/exercises/{exerciseID}/complete", api.CompleteExerciseHandler(projects, badges, events))
			jr.With(rbac.Require("project:edit-own")).
				Put("/{projectID}/modules/{moduleID}/exercises/{exerciseID}/response", api.SaveExerciseResponseHandler(projects))
			jr.With(rbac.Require("project:edit-own")).
				Put("/{projectID}/modules/{moduleID}/quiz", api.SaveQuizResponseHandler(projects, badges, events))
		})

		pr.Route("/posts", func(fr chi.Router) {
			fr.With(rbac.Require("post:create")).Post("/", api.CreatePostHandler(posts, users, events))
			fr.With(rbac.Require("post:view")).Get("/", api.ListPostsHandler(posts))
			fr.With(rbac.Require("post:view")).Get("/{postID}", api.GetPostHandler(posts))
			fr.With(rbac.RequireAny("post:edit-own", "post:edit-all")).Put("/{postID}", api.UpdatePostHandler(posts))
			fr.With(rbac.RequireAny("post:delete-own", "post:delete-all")).Delete("/{postID}", api.DeletePostHandler(posts))
			fr.With(rbac.Require("like:toggle")).Post("/{postID}/like", api.ToggleLikeHandler(posts))
			fr.With(rbac.Require("comment:create")).Post("/{postID}/comments", api.CreateCommentHandler(posts, users))
			fr.With(rbac.Require("post:view")).Get("/{postID}/comments", api.ListCommentsHandler(posts))
		})
		pr.With(rbac.RequireAny("comment:delete-own", "comment:delete-all")).
			Delete("/comments/{commentID}", api.DeleteCommentHandler(posts))

		pr.With(rbac.Require("notification:view-own")).Get("/notifications", api.ListNotificationsHandler(posts))
		pr.With(rbac.Require("notification:view-own")).Post("/notifications/{notificationID}/read", api.MarkNotificationReadHandler(posts))

		pr.With(rbac.Require("contact:send")).Post("/contact", api.SendContactMessageHandler(posts))
		pr.With(rbac.Require("contact:send")).Get("/contact", api.ListContactMessagesHandler(posts))
		pr.With(rbac.Require("admin:messages")).Post("/admin/contact/{messageID}/reply", api.ReplyContactMessageHandler(posts))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// eventSink bridges project lifecycle events into the append-only event log.
// Failures are logged only; event recording never blocks a save.
type eventSink struct {
	repo   *syncx.EventRepo
	siteID string
}

func (s *eventSink) ProjectSaved(ctx context.Context, p project.Project) {
	data, _ := json.Marshal(map[string]any{"id": p.ID, "user_id": p.UserID, "name": p.Name})
	if err := s.repo.Append(ctx, syncx.Event{
		SiteID: s.siteID, Type: syncx.TypeProjectSaved, Key: p.ID, DataJSON: string(data),
	}); err != nil {
		log.Printf("event log: project saved %s: %v", p.ID, err)
	}
}

func (s *eventSink) ProjectDeleted(ctx context.Context, projectID string) {
	if err := s.repo.Append(ctx, syncx.Event{
		SiteID: s.siteID, Type: syncx.TypeProjectDeleted, Key: projectID, DataJSON: "{}",
	}); err != nil {
		log.Printf("event log: project deleted %s: %v", projectID, err)
	}
}
