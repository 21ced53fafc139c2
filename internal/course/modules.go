package course

// Module is static curriculum configuration, not per-user state. Totals are
// the denominators for progress percentages.
type Module struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Icon           string `json:"icon"`
	TotalTopics    int    `json:"total_topics"`
	TotalExercises int    `json:"total_exercises"`
	Stage          int    `json:"stage"`
}

const (
	ModulePlot          = "plot"
	ModuleCharacters    = "characters"
	ModuleThemes        = "themes"
	ModuleWorldbuilding = "worldbuilding"
)

// Topics and exercises have equal weight in module progress, except for
// worldbuilding which is exercise-only.
const (
	TopicWeight    = 0.5
	ExerciseWeight = 0.5
)

var Modules = []Module{
	{
		ID:             ModulePlot,
		Title:          "Plot Development",
		Description:    "Master the art of crafting compelling storylines and narrative arcs",
		Icon:           "BookOpen",
		TotalTopics:    3,
		TotalExercises: 3,
		Stage:          1,
	},
	{
		ID:             ModuleCharacters,
		Title:          "Character Creation",
		Description:    "Develop memorable characters with depth and authenticity",
		Icon:           "Users",
		TotalTopics:    4,
		TotalExercises: 1,
		Stage:          2,
	},
	{
		ID:             ModuleThemes,
		Title:          "Thematic Elements",
		Description:    "Explore and weave meaningful themes throughout your story",
		Icon:           "Lightbulb",
		TotalTopics:    4,
		TotalExercises: 1,
		Stage:          3,
	},
	{
		ID:             ModuleWorldbuilding,
		Title:          "World Building",
		Description:    "Create rich and immersive settings for your narrative",
		Icon:           "Globe",
		TotalTopics:    8,
		TotalExercises: 8,
		Stage:          4,
	},
}

// ModuleByID returns the static config for a module, or false when the id is
// not part of the curriculum.
func ModuleByID(id string) (Module, bool) {
	for _, m := range Modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

// ModuleIDs returns the curriculum module ids in stage order.
func ModuleIDs() []string {
	ids := make([]string, len(Modules))
	for i, m := range Modules {
		ids[i] = m.ID
	}
	return ids
}
