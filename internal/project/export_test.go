package project

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/HuonT/Writers-Tome/internal/progress"
)

func sampleProject() Project {
	cp := progress.CompleteTopic(progress.New(), "plot", "premise")
	cp = progress.SaveExerciseResponse(cp, "plot", "outline", "three acts")
	return Project{
		ID:           "11111111-1111-1111-1111-111111111111",
		UserID:       "u1",
		Name:         "My Novel",
		CreatedAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		LastModified: time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC),
		Progress:     progress.Refresh(cp),
	}
}

func TestExportEnvelopeShape(t *testing.T) {
	data, err := ExportProject(sampleProject())
	if err != nil {
		t.Fatal(err)
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatal(err)
	}
	var version string
	if err := json.Unmarshal(env["version"], &version); err != nil || version != ExportVersion {
		t.Fatalf("version = %q, want %q", version, ExportVersion)
	}
	if _, ok := env["project"]; !ok {
		t.Fatal("envelope must carry a project block")
	}
}

func TestExportOmitsOwner(t *testing.T) {
	data, err := ExportProject(sampleProject())
	if err != nil {
		t.Fatal(err)
	}
	var env struct {
		Project map[string]any `json:"project"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatal(err)
	}
	if _, ok := env.Project["user_id"]; ok {
		t.Fatal("exports are portable between accounts; user_id must not be written")
	}
}

func TestImportRoundTrip(t *testing.T) {
	orig := sampleProject()
	data, err := ExportProject(orig)
	if err != nil {
		t.Fatal(err)
	}
	imported, err := ImportProject(data)
	if err != nil {
		t.Fatal(err)
	}
	if imported.ID == orig.ID {
		t.Error("import must mint a fresh id")
	}
	if imported.ID == "" {
		t.Error("import must set an id")
	}
	if imported.Name != orig.Name {
		t.Errorf("name = %q, want %q", imported.Name, orig.Name)
	}
	if imported.CreatedAt.Before(orig.CreatedAt) || imported.CreatedAt.Equal(orig.CreatedAt) {
		t.Error("import must stamp fresh timestamps")
	}
	topics := imported.Progress.ModuleProgress["plot"].CompletedTopics
	if len(topics) != 1 || topics[0] != "premise" {
		t.Errorf("completed topics did not survive the round trip: %v", topics)
	}
	got, ok := progress.GetExerciseResponse(imported.Progress, "plot", "outline")
	if !ok || got != "three acts" {
		t.Errorf("exercise response did not survive: %v (found=%v)", got, ok)
	}
	if len(imported.Progress.ModuleProgress) != 4 {
		t.Errorf("import must normalize to all modules, got %d", len(imported.Progress.ModuleProgress))
	}
}

func TestImportRejections(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"missing version", `{"project":{"id":"x","name":"n","progress":{}}}`},
		{"missing id", `{"version":"1.0","project":{"name":"n","progress":{}}}`},
		{"blank name", `{"version":"1.0","project":{"id":"x","name":"  ","progress":{}}}`},
		{"missing progress", `{"version":"1.0","project":{"id":"x","name":"n"}}`},
		{"null progress", `{"version":"1.0","project":{"id":"x","name":"n","progress":null}}`},
		{"bad progress", `{"version":"1.0","project":{"id":"x","name":"n","progress":[1,2]}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ImportProject([]byte(tc.data))
			if !errors.Is(err, ErrInvalidExport) {
				t.Fatalf("err = %v, want ErrInvalidExport", err)
			}
		})
	}
}

func TestBackupFilename(t *testing.T) {
	p := Project{ID: "abc", Name: "My  Great Novel"}
	if got := BackupFilename(p); got != "my-great-novel-backup.json" {
		t.Fatalf("got %q", got)
	}
	p.Name = "   "
	if got := BackupFilename(p); got != "abc-backup.json" {
		t.Fatalf("blank name must fall back to id: got %q", got)
	}
}
