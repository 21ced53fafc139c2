package progress

import "github.com/HuonT/Writers-Tome/internal/course"

// ExerciseResponse holds a learner's saved answer for one exercise. Response
// is free text for plain exercises or a structured value (e.g. a list of
// character decision records) for the profile-style exercises.
type ExerciseResponse struct {
	ExerciseID string `json:"exercise_id"`
	Response   any    `json:"response"`
}

// QuizResponse records one answered quiz question. At most one entry exists
// per question id within a module.
type QuizResponse struct {
	QuestionID string `json:"question_id"`
	UserAnswer string `json:"user_answer"`
	IsCorrect  bool   `json:"is_correct"`
}

// ModuleProgress is the per-module slice of a project's course progress.
// CompletedTopics and CompletedExercises are sets (membership only, no
// duplicates). Progress caches the last computed percentage; the authoritative
// value is always recomputed from the sets.
type ModuleProgress struct {
	CompletedTopics    []string           `json:"completed_topics"`
	CompletedExercises []string           `json:"completed_exercises"`
	ExerciseResponses  []ExerciseResponse `json:"exercise_responses"`
	QuizResponses      []QuizResponse     `json:"quiz_responses"`
	Progress           int                `json:"progress"`
}

// CourseProgress is the whole per-project progress document, embedded in a
// Project and persisted with it as one unit. CompletedModules is
// informational; nothing reads it back into the percentage math.
type CourseProgress struct {
	CompletedModules []string                  `json:"completed_modules"`
	CurrentModule    string                    `json:"current_module,omitempty"`
	ModuleProgress   map[string]ModuleProgress `json:"module_progress"`
}

// New returns a fresh CourseProgress with every curriculum module present and
// empty. All four module keys exist even for a brand new project.
func New() CourseProgress {
	mp := make(map[string]ModuleProgress, len(course.Modules))
	for _, m := range course.Modules {
		mp[m.ID] = emptyModuleProgress()
	}
	return CourseProgress{
		CompletedModules: []string{},
		ModuleProgress:   mp,
	}
}

func emptyModuleProgress() ModuleProgress {
	return ModuleProgress{
		CompletedTopics:    []string{},
		CompletedExercises: []string{},
		ExerciseResponses:  []ExerciseResponse{},
		QuizResponses:      []QuizResponse{},
	}
}

// Normalize fills in any module keys missing from an older or imported
// document so the four-key invariant holds after load.
func Normalize(cp CourseProgress) CourseProgress {
	if cp.ModuleProgress == nil {
		cp.ModuleProgress = make(map[string]ModuleProgress, len(course.Modules))
	}
	for _, m := range course.Modules {
		mp, ok := cp.ModuleProgress[m.ID]
		if !ok {
			cp.ModuleProgress[m.ID] = emptyModuleProgress()
			continue
		}
		if mp.CompletedTopics == nil {
			mp.CompletedTopics = []string{}
		}
		if mp.CompletedExercises == nil {
			mp.CompletedExercises = []string{}
		}
		if mp.ExerciseResponses == nil {
			mp.ExerciseResponses = []ExerciseResponse{}
		}
		if mp.QuizResponses == nil {
			mp.QuizResponses = []QuizResponse{}
		}
		cp.ModuleProgress[m.ID] = mp
	}
	if cp.CompletedModules == nil {
		cp.CompletedModules = []string{}
	}
	return cp
}

func (mp ModuleProgress) clone() ModuleProgress {
	out := ModuleProgress{
		CompletedTopics:    append([]string(nil), mp.CompletedTopics...),
		CompletedExercises: append([]string(nil), mp.CompletedExercises...),
		ExerciseResponses:  append([]ExerciseResponse(nil), mp.ExerciseResponses...),
		QuizResponses:      append([]QuizResponse(nil), mp.QuizResponses...),
		Progress:           mp.Progress,
	}
	return out
}

// clone produces an independent snapshot; update functions never mutate their
// input so debounced persistence always sees a consistent document.
func (cp CourseProgress) clone() CourseProgress {
	out := CourseProgress{
		CompletedModules: append([]string(nil), cp.CompletedModules...),
		CurrentModule:    cp.CurrentModule,
		ModuleProgress:   make(map[string]ModuleProgress, len(cp.ModuleProgress)),
	}
	for id, mp := range cp.ModuleProgress {
		out.ModuleProgress[id] = mp.clone()
	}
	return out
}
