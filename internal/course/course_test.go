package course

import "testing"

func TestModuleCatalog(t *testing.T) {
	cases := []struct {
		id                string
		topics, exercises int
	}{
		{ModulePlot, 3, 3},
		{ModuleCharacters, 4, 1},
		{ModuleThemes, 4, 1},
		{ModuleWorldbuilding, 8, 8},
	}
	if len(Modules) != len(cases) {
		t.Fatalf("catalog has %d modules, want %d", len(Modules), len(cases))
	}
	for _, tc := range cases {
		m, ok := ModuleByID(tc.id)
		if !ok {
			t.Fatalf("module %q missing", tc.id)
		}
		if m.TotalTopics != tc.topics || m.TotalExercises != tc.exercises {
			t.Errorf("%s: topics=%d exercises=%d, want %d/%d",
				tc.id, m.TotalTopics, m.TotalExercises, tc.topics, tc.exercises)
		}
	}
	if _, ok := ModuleByID("cartography"); ok {
		t.Error("unknown module must not resolve")
	}
}

func TestQuizCatalog(t *testing.T) {
	wants := map[string]int{
		ModulePlot:       5,
		ModuleCharacters: 5,
		ModuleThemes:     4,
	}
	for moduleID, n := range wants {
		if got := QuizQuestionCount(moduleID); got != n {
			t.Errorf("%s: %d questions, want %d", moduleID, got, n)
		}
	}
	if QuizQuestionCount(ModuleWorldbuilding) != 0 {
		t.Error("worldbuilding has no quiz")
	}
	if !HasQuizQuestion(ModulePlot, "plot-1") {
		t.Error("plot-1 must exist")
	}
	if HasQuizQuestion(ModulePlot, "plot-99") {
		t.Error("plot-99 must not exist")
	}
	if HasQuizQuestion(ModuleWorldbuilding, "plot-1") {
		t.Error("questions are scoped to their module")
	}
}

func TestPostCategories(t *testing.T) {
	if len(PostCategories) != 9 {
		t.Fatalf("got %d categories", len(PostCategories))
	}
	seen := map[string]bool{}
	for _, c := range PostCategories {
		if c.ID == "" || c.Label == "" {
			t.Errorf("category missing id or label: %+v", c)
		}
		if seen[c.ID] {
			t.Errorf("duplicate category id %q", c.ID)
		}
		seen[c.ID] = true
		if !ValidCategory(c.ID) {
			t.Errorf("catalog category %q must validate", c.ID)
		}
	}
	if ValidCategory("random-chat") {
		t.Error("unknown category must not validate")
	}
}
