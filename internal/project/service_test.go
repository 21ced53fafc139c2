package project

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HuonT/Writers-Tome/internal/progress"
)

type memStore struct {
	projects map[string]Project
	saveErr  error
}

func newMemStore() *memStore { return &memStore{projects: map[string]Project{}} }

func (m *memStore) Save(_ context.Context, p Project) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.projects[p.ID] = p
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	return p, nil
}

func (m *memStore) ListForUser(_ context.Context, userID string) ([]Project, error) {
	var out []Project
	for _, p := range m.projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.projects, id)
	return nil
}

type recordingSink struct {
	saved   []string
	deleted []string
}

func (r *recordingSink) ProjectSaved(_ context.Context, p Project) { r.saved = append(r.saved, p.ID) }
func (r *recordingSink) ProjectDeleted(_ context.Context, id string) {
	r.deleted = append(r.deleted, id)
}

func newTestService(store Store) (*Service, *recordingSink) {
	sink := &recordingSink{}
	return NewService(store, sink), sink
}

func TestCreateSeedsEmptyProgress(t *testing.T) {
	svc, sink := newTestService(newMemStore())
	p, err := svc.Create(context.Background(), "u1", "  My Novel  ")
	if err != nil {
		t.Fatal(err)
	}
	if p.ID == "" {
		t.Error("create must mint an id")
	}
	if p.Name != "My Novel" {
		t.Errorf("name must be trimmed, got %q", p.Name)
	}
	if len(p.Progress.ModuleProgress) != 4 {
		t.Errorf("progress must seed all modules, got %d", len(p.Progress.ModuleProgress))
	}
	if !p.CreatedAt.Equal(p.LastModified) {
		t.Error("fresh project: CreatedAt and LastModified must match")
	}
	if len(sink.saved) != 1 || sink.saved[0] != p.ID {
		t.Errorf("save event not emitted: %v", sink.saved)
	}
}

func TestCreateRequiresName(t *testing.T) {
	svc, _ := newTestService(newMemStore())
	if _, err := svc.Create(context.Background(), "u1", "   "); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("err = %v, want ErrNameRequired", err)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	p, err := svc.Create(context.Background(), "u1", "Mine")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(context.Background(), "u2", p.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	if _, err := svc.Get(context.Background(), "u1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRenameBumpsLastModified(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	p, err := svc.Create(context.Background(), "u1", "Draft")
	if err != nil {
		t.Fatal(err)
	}
	svc.now = func() time.Time { return p.LastModified.Add(time.Hour) }

	got, err := svc.Rename(context.Background(), "u1", p.ID, "Final Title")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Final Title" {
		t.Errorf("name = %q", got.Name)
	}
	if !got.LastModified.After(p.LastModified) {
		t.Error("rename must bump LastModified")
	}
	stored, _ := store.Get(context.Background(), p.ID)
	if stored.Name != "Final Title" {
		t.Error("rename must persist")
	}
}

func TestUpdateProgressRefreshesCache(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	p, err := svc.Create(context.Background(), "u1", "Draft")
	if err != nil {
		t.Fatal(err)
	}

	cp := progress.CompleteTopic(p.Progress, "plot", "premise")
	// client sends a stale cached percentage; server recomputes
	mp := cp.ModuleProgress["plot"]
	mp.Progress = 99
	cp.ModuleProgress["plot"] = mp

	got, err := svc.UpdateProgress(context.Background(), "u1", p.ID, cp)
	if err != nil {
		t.Fatal(err)
	}
	if pct := got.Progress.ModuleProgress["plot"].Progress; pct != 17 {
		t.Errorf("cached percent = %d, want recomputed 17", pct)
	}
}

func TestUpdateProgressLastWriteWins(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)
	p, err := svc.Create(context.Background(), "u1", "Draft")
	if err != nil {
		t.Fatal(err)
	}

	first := progress.CompleteTopic(p.Progress, "plot", "premise")
	second := progress.CompleteTopic(p.Progress, "characters", "voice")
	if _, err := svc.UpdateProgress(context.Background(), "u1", p.ID, first); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateProgress(context.Background(), "u1", p.ID, second); err != nil {
		t.Fatal(err)
	}

	stored, _ := store.Get(context.Background(), p.ID)
	if len(stored.Progress.ModuleProgress["plot"].CompletedTopics) != 0 {
		t.Error("last whole-document write must replace the first")
	}
	if len(stored.Progress.ModuleProgress["characters"].CompletedTopics) != 1 {
		t.Error("winning write must be stored")
	}
}

func TestDeleteChecksOwnership(t *testing.T) {
	store := newMemStore()
	svc, sink := newTestService(store)
	p, err := svc.Create(context.Background(), "u1", "Draft")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), "u2", p.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	if err := svc.Delete(context.Background(), "u1", p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(context.Background(), p.ID); !errors.Is(err, ErrNotFound) {
		t.Error("project must be gone after delete")
	}
	if len(sink.deleted) != 1 || sink.deleted[0] != p.ID {
		t.Errorf("delete event not emitted: %v", sink.deleted)
	}
}

func TestCreateImportedStampsOwner(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(store)

	data, err := ExportProject(sampleProject())
	if err != nil {
		t.Fatal(err)
	}
	imported, err := ImportProject(data)
	if err != nil {
		t.Fatal(err)
	}
	p, err := svc.CreateImported(context.Background(), "u2", imported)
	if err != nil {
		t.Fatal(err)
	}
	if p.UserID != "u2" {
		t.Errorf("owner = %q, want u2", p.UserID)
	}
	if _, err := svc.Get(context.Background(), "u2", p.ID); err != nil {
		t.Errorf("imported project must be readable by its new owner: %v", err)
	}
}
