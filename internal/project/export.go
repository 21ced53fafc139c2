package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HuonT/Writers-Tome/internal/progress"
)

// ExportVersion is the envelope version written by ExportProject. Import
// accepts any envelope that declares a version; unknown future versions are
// still parsed field-by-field.
const ExportVersion = "1.0"

var ErrInvalidExport = errors.New("invalid project export")

type exportEnvelope struct {
	Version string          `json:"version"`
	Project exportedProject `json:"project"`
}

// exportedProject mirrors Project but with a raw progress payload so that a
// malformed progress block is detected before a partial project is built.
type exportedProject struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id,omitempty"`
	Name         string          `json:"name"`
	CreatedAt    time.Time       `json:"created_at"`
	LastModified time.Time       `json:"last_modified"`
	Progress     json.RawMessage `json:"progress"`
}

// ExportProject serializes a project into the versioned backup envelope.
// LastModified is stamped at export time, matching the file's creation.
func ExportProject(p Project) ([]byte, error) {
	pj, err := json.Marshal(p.Progress)
	if err != nil {
		return nil, err
	}
	env := exportEnvelope{
		Version: ExportVersion,
		Project: exportedProject{
			ID:           p.ID,
			Name:         p.Name,
			CreatedAt:    p.CreatedAt,
			LastModified: time.Now().UTC(),
			Progress:     pj,
		},
	}
	return json.MarshalIndent(env, "", "  ")
}

// ImportProject reconstructs a project from an export envelope. The envelope
// must declare a version and carry id, name, and progress; anything less is
// rejected outright — no partial project is ever returned. A fresh id and
// fresh timestamps are always minted so an import can never collide with an
// existing project.
func ImportProject(data []byte) (Project, error) {
	var env exportEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Project{}, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}
	if env.Version == "" {
		return Project{}, fmt.Errorf("%w: missing version", ErrInvalidExport)
	}
	if env.Project.ID == "" {
		return Project{}, fmt.Errorf("%w: missing required field: id", ErrInvalidExport)
	}
	if strings.TrimSpace(env.Project.Name) == "" {
		return Project{}, fmt.Errorf("%w: missing required field: name", ErrInvalidExport)
	}
	if len(env.Project.Progress) == 0 || string(env.Project.Progress) == "null" {
		return Project{}, fmt.Errorf("%w: missing required field: progress", ErrInvalidExport)
	}

	var cp progress.CourseProgress
	if err := json.Unmarshal(env.Project.Progress, &cp); err != nil {
		return Project{}, fmt.Errorf("%w: bad progress: %v", ErrInvalidExport, err)
	}

	now := time.Now().UTC()
	return Project{
		ID:           uuid.NewString(),
		Name:         env.Project.Name,
		CreatedAt:    now,
		LastModified: now,
		Progress:     progress.Normalize(cp),
	}, nil
}

// BackupFilename is the server-side archive name for an exported project,
// derived the same way the client names downloaded backups.
func BackupFilename(p Project) string {
	slug := strings.ToLower(strings.Join(strings.Fields(p.Name), "-"))
	if slug == "" {
		slug = p.ID
	}
	return slug + "-backup.json"
}
