package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/HuonT/Writers-Tome/internal/auth/middleware"
	"github.com/HuonT/Writers-Tome/internal/project"
	"github.com/HuonT/Writers-Tome/internal/storage"
)

func projectStatus(err error) int {
	switch {
	case errors.Is(err, project.ErrNotFound):
		return 404
	case errors.Is(err, project.ErrNotOwner):
		return 403
	default:
		return 400
	}
}

// POST /projects  { "name": "..." }
func CreateProjectHandler(svc *project.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		p, err := svc.Create(r.Context(), sub, req.Name)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, p)
	}
}

// GET /projects
func ListProjectsHandler(svc *project.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		list, err := svc.ListForUser(r.Context(), sub)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if list == nil {
			list = []project.Project{}
		}
		writeJSON(w, list)
	}
}

// GET /projects/{projectID}
func GetProjectHandler(svc *project.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		p, err := svc.Get(r.Context(), sub, chi.URLParam(r, "projectID"))
		if err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}
		writeJSON(w, p)
	}
}

// PUT /projects/{projectID}/name  { "name": "..." }
func RenameProjectHandler(svc *project.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		p, err := svc.Rename(r.Context(), sub, chi.URLParam(r, "projectID"), req.Name)
		if err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}
		writeJSON(w, p)
	}
}

// DELETE /projects/{projectID}
func DeleteProjectHandler(svc *project.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		if err := svc.Delete(r.Context(), sub, chi.URLParam(r, "projectID")); err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /projects/{projectID}/export
// Streams the versioned envelope and archives a server-side copy. Archive
// failures are logged only; the download must not break because of them.
func ExportProjectHandler(svc *project.Service, backups storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		p, err := svc.Get(r.Context(), sub, chi.URLParam(r, "projectID"))
		if err != nil {
			http.Error(w, err.Error(), projectStatus(err))
			return
		}
		data, err := project.ExportProject(p)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if backups != nil {
			key := storage.BackupKey(sub, project.BackupFilename(p))
			if _, err := storage.PutBytes(backups, key, data); err != nil {
				log.Printf("project export: archive %s: %v", key, err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="`+project.BackupFilename(p)+`"`)
		_, _ = w.Write(data)
	}
}

// POST /projects/import — body is a raw export envelope. A rejected envelope
// creates nothing.
func ImportProjectHandler(svc *project.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4<<20))
		if err != nil {
			http.Error(w, "body too large", 400)
			return
		}
		p, err := project.ImportProject(data)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		p, err = svc.CreateImported(r.Context(), sub, p)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, p)
	}
}
