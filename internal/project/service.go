package project

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HuonT/Writers-Tome/internal/progress"
)

var (
	ErrNameRequired = errors.New("project name required")
	ErrNotOwner     = errors.New("project does not belong to user")
)

// EventSink receives domain events after successful writes. It is optional;
// a nil sink disables event recording.
type EventSink interface {
	ProjectSaved(ctx context.Context, p Project)
	ProjectDeleted(ctx context.Context, projectID string)
}

// Service owns project lifecycle: creation with seeded progress, renames,
// whole-document progress updates, and deletion. All writes bump
// LastModified; all reads hand back normalized documents.
type Service struct {
	store  Store
	events EventSink
	now    func() time.Time
}

func NewService(store Store, events EventSink) *Service {
	return &Service{store: store, events: events, now: func() time.Time { return time.Now().UTC() }}
}

// Create makes a new empty project for the user. The id is minted here, the
// progress document is seeded with all four module keys present and empty.
func (s *Service) Create(ctx context.Context, userID, name string) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, ErrNameRequired
	}
	now := s.now()
	p := Project{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         name,
		CreatedAt:    now,
		LastModified: now,
		Progress:     progress.New(),
	}
	if err := s.store.Save(ctx, p); err != nil {
		return Project{}, err
	}
	s.emitSaved(ctx, p)
	return p, nil
}

// CreateImported persists a project reconstructed from an export envelope.
// ImportProject has already minted fresh id/timestamps; ownership is stamped
// here so an envelope exported by one user imports cleanly for another.
func (s *Service) CreateImported(ctx context.Context, userID string, p Project) (Project, error) {
	p.UserID = userID
	if err := s.store.Save(ctx, p); err != nil {
		return Project{}, err
	}
	s.emitSaved(ctx, p)
	return p, nil
}

func (s *Service) Get(ctx context.Context, userID, projectID string) (Project, error) {
	p, err := s.store.Get(ctx, projectID)
	if err != nil {
		return Project{}, err
	}
	if p.UserID != userID {
		return Project{}, ErrNotOwner
	}
	return p, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]Project, error) {
	return s.store.ListForUser(ctx, userID)
}

// Rename updates the project name and bumps LastModified.
func (s *Service) Rename(ctx context.Context, userID, projectID, newName string) (Project, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return Project{}, ErrNameRequired
	}
	p, err := s.Get(ctx, userID, projectID)
	if err != nil {
		return Project{}, err
	}
	p.Name = newName
	p.LastModified = s.now()
	if err := s.store.Save(ctx, p); err != nil {
		return Project{}, err
	}
	s.emitSaved(ctx, p)
	return p, nil
}

// UpdateProgress overwrites the project's progress document. The cached
// per-module percentages are refreshed from the live sets before the write so
// the stored cache never goes stale. Last write wins at whole-document
// granularity; a single active editor per project is assumed.
func (s *Service) UpdateProgress(ctx context.Context, userID, projectID string, cp progress.CourseProgress) (Project, error) {
	p, err := s.Get(ctx, userID, projectID)
	if err != nil {
		return Project{}, err
	}
	p.Progress = progress.Refresh(progress.Normalize(cp))
	p.LastModified = s.now()
	if err := s.store.Save(ctx, p); err != nil {
		return Project{}, err
	}
	s.emitSaved(ctx, p)
	return p, nil
}

// Delete removes the project document permanently. A project is a single
// document; nothing cascades.
func (s *Service) Delete(ctx context.Context, userID, projectID string) error {
	if _, err := s.Get(ctx, userID, projectID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, projectID); err != nil {
		return err
	}
	if s.events != nil {
		s.events.ProjectDeleted(ctx, projectID)
	}
	return nil
}

func (s *Service) emitSaved(ctx context.Context, p Project) {
	if s.events != nil {
		s.events.ProjectSaved(ctx, p)
	}
}

func unixUTC(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
