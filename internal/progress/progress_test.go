package progress

import (
	"testing"

	"github.com/HuonT/Writers-Tome/internal/course"
)

func TestNewSeedsAllModules(t *testing.T) {
	cp := New()
	if len(cp.ModuleProgress) != 4 {
		t.Fatalf("expected 4 module entries, got %d", len(cp.ModuleProgress))
	}
	for _, id := range []string{"plot", "characters", "themes", "worldbuilding"} {
		mp, ok := cp.ModuleProgress[id]
		if !ok {
			t.Fatalf("module %q missing from fresh progress", id)
		}
		if len(mp.CompletedTopics) != 0 || len(mp.CompletedExercises) != 0 ||
			len(mp.ExerciseResponses) != 0 || len(mp.QuizResponses) != 0 || mp.Progress != 0 {
			t.Errorf("module %q not empty: %+v", id, mp)
		}
		if mp.CompletedTopics == nil || mp.ExerciseResponses == nil {
			t.Errorf("module %q has nil slices", id)
		}
	}
}

func TestCompleteTopicIdempotent(t *testing.T) {
	cp := New()
	once := CompleteTopic(cp, "plot", "premise")
	twice := CompleteTopic(once, "plot", "premise")

	if got := len(once.ModuleProgress["plot"].CompletedTopics); got != 1 {
		t.Fatalf("expected 1 completed topic, got %d", got)
	}
	if got := len(twice.ModuleProgress["plot"].CompletedTopics); got != 1 {
		t.Fatalf("second completion added a duplicate: %d entries", got)
	}
	// input snapshot untouched
	if len(cp.ModuleProgress["plot"].CompletedTopics) != 0 {
		t.Error("CompleteTopic mutated its input")
	}
}

func TestCompleteExerciseIdempotent(t *testing.T) {
	cp := New()
	once := CompleteExercise(cp, "plot", "plot-exercise-1")
	twice := CompleteExercise(once, "plot", "plot-exercise-1")
	if got := len(twice.ModuleProgress["plot"].CompletedExercises); got != 1 {
		t.Fatalf("expected 1 completed exercise, got %d", got)
	}
}

func TestCompleteUnknownModuleIsNoop(t *testing.T) {
	cp := New()
	out := CompleteTopic(cp, "cartography", "maps")
	if _, ok := out.ModuleProgress["cartography"]; ok {
		t.Fatal("unknown module must not be created")
	}
}

func TestWorldbuildingFormula(t *testing.T) {
	for k := 0; k <= 10; k++ {
		cp := New()
		mp := cp.ModuleProgress["worldbuilding"]
		for i := 0; i < k; i++ {
			mp.CompletedExercises = append(mp.CompletedExercises, string(rune('a'+i)))
		}
		cp.ModuleProgress["worldbuilding"] = mp

		want := (k*100 + 4) / 8 // round(k/8*100)
		if want > 100 {
			want = 100
		}
		if got := ModulePercent("worldbuilding", cp); got != want {
			t.Errorf("k=%d: got %d, want %d", k, got, want)
		}
	}
}

func TestWeightedFormula(t *testing.T) {
	// characters: 4 topics, 1 exercise. 2 topics + 1 exercise = 25 + 50 = 75.
	cp := New()
	cp = CompleteTopic(cp, "characters", "t1")
	cp = CompleteTopic(cp, "characters", "t2")
	cp = CompleteExercise(cp, "characters", "profile")
	if got := ModulePercent("characters", cp); got != 75 {
		t.Fatalf("got %d, want 75", got)
	}
}

func TestPercentClamp(t *testing.T) {
	cp := New()
	mp := cp.ModuleProgress["characters"]
	mp.CompletedTopics = []string{"a", "b", "c", "d", "e", "f"} // > totalTopics
	mp.CompletedExercises = []string{"x", "y"}                  // > totalExercises
	cp.ModuleProgress["characters"] = mp
	if got := ModulePercent("characters", cp); got != 100 {
		t.Fatalf("overshoot must clamp to 100, got %d", got)
	}
}

func TestModulePercentUnknownModule(t *testing.T) {
	if got := ModulePercent("nope", New()); got != 0 {
		t.Fatalf("unknown module: got %d, want 0", got)
	}
}

func TestFirstTopicScenario(t *testing.T) {
	// plot: 3 topics, 3 exercises. One topic done => round(1/3*50) = 17.
	cp := CompleteTopic(New(), "plot", "premise")
	if got := ModulePercent("plot", cp); got != 17 {
		t.Fatalf("got %d, want 17", got)
	}
}

func TestOverallPercent(t *testing.T) {
	cp := New()
	if got := OverallPercent(cp); got != 0 {
		t.Fatalf("fresh project overall: got %d, want 0", got)
	}
	mp := cp.ModuleProgress["worldbuilding"]
	mp.CompletedExercises = []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	cp.ModuleProgress["worldbuilding"] = mp
	// one module at 100, three at 0 => mean 25
	if got := OverallPercent(cp); got != 25 {
		t.Fatalf("got %d, want 25", got)
	}
}

func TestExerciseResponseReplaceSemantics(t *testing.T) {
	cp := New()
	cp = SaveExerciseResponse(cp, "plot", "outline", "first draft")
	cp = SaveExerciseResponse(cp, "plot", "outline", "second draft")
	cp = SaveExerciseResponse(cp, "plot", "premise", "the premise")

	responses := cp.ModuleProgress["plot"].ExerciseResponses
	if len(responses) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(responses))
	}
	got, ok := GetExerciseResponse(cp, "plot", "outline")
	if !ok || got != "second draft" {
		t.Fatalf("latest value must win: got %v (found=%v)", got, ok)
	}
}

func TestGetExerciseResponseMissing(t *testing.T) {
	if _, ok := GetExerciseResponse(New(), "plot", "outline"); ok {
		t.Fatal("missing response must report not found")
	}
}

func TestQuizResponseReplaceByQuestionID(t *testing.T) {
	cp := New()
	cp = SaveQuizResponse(cp, "plot", QuizResponse{QuestionID: "plot-1", UserAnswer: "a", IsCorrect: true})
	cp = SaveQuizResponse(cp, "plot", QuizResponse{QuestionID: "plot-2", UserAnswer: "b", IsCorrect: true})
	cp = SaveQuizResponse(cp, "plot", QuizResponse{QuestionID: "plot-1", UserAnswer: "revised", IsCorrect: true})

	got := GetQuizResponses(cp, "plot")
	if len(got) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(got))
	}
	if got[0].QuestionID != "plot-1" || got[0].UserAnswer != "revised" {
		t.Fatalf("replace must keep position and update value: %+v", got[0])
	}
}

func TestRefreshRecomputesCache(t *testing.T) {
	cp := New()
	mp := cp.ModuleProgress["plot"]
	mp.Progress = 93 // stale cache
	cp.ModuleProgress["plot"] = mp

	out := Refresh(cp)
	if got := out.ModuleProgress["plot"].Progress; got != 0 {
		t.Fatalf("stale cache must be recomputed, got %d", got)
	}
}

func TestNormalizeRestoresMissingModules(t *testing.T) {
	cp := CourseProgress{ModuleProgress: map[string]ModuleProgress{
		"plot": {CompletedTopics: []string{"premise"}},
	}}
	out := Normalize(cp)
	for _, m := range course.Modules {
		if _, ok := out.ModuleProgress[m.ID]; !ok {
			t.Errorf("module %q missing after normalize", m.ID)
		}
	}
	if out.ModuleProgress["plot"].ExerciseResponses == nil {
		t.Error("nil slices must be replaced with empty ones")
	}
	if len(out.ModuleProgress["plot"].CompletedTopics) != 1 {
		t.Error("existing data must survive normalize")
	}
}

func TestSetCurrentModule(t *testing.T) {
	cp := SetCurrentModule(New(), "themes")
	if cp.CurrentModule != "themes" {
		t.Fatalf("got %q", cp.CurrentModule)
	}
	cp = SetCurrentModule(cp, "")
	if cp.CurrentModule != "" {
		t.Fatal("empty id must clear current module")
	}
}
