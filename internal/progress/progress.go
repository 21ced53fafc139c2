package progress

import (
	"math"

	"github.com/HuonT/Writers-Tome/internal/course"
)

// ModulePercent computes a module's completion percentage from its progress
// entry and static config. Worldbuilding counts exercises only; every other
// module weights topics and exercises 50/50. The result is rounded and
// clamped to 100 — the completed sets are not validated against the static
// totals at write time, so overshoot must never push the value past 100.
// Unknown modules yield 0.
func ModulePercent(moduleID string, cp CourseProgress) int {
	mp, ok := cp.ModuleProgress[moduleID]
	if !ok {
		return 0
	}
	cfg, ok := course.ModuleByID(moduleID)
	if !ok {
		return 0
	}
	return modulePercent(moduleID, mp, cfg)
}

func modulePercent(moduleID string, mp ModuleProgress, cfg course.Module) int {
	if moduleID == course.ModuleWorldbuilding {
		if cfg.TotalExercises == 0 {
			return 0
		}
		pct := float64(len(mp.CompletedExercises)) / float64(cfg.TotalExercises) * 100
		return clampPercent(pct)
	}
	if cfg.TotalTopics == 0 || cfg.TotalExercises == 0 {
		return 0
	}
	topicPart := float64(len(mp.CompletedTopics)) / float64(cfg.TotalTopics) * course.TopicWeight * 100
	exercisePart := float64(len(mp.CompletedExercises)) / float64(cfg.TotalExercises) * course.ExerciseWeight * 100
	return clampPercent(topicPart + exercisePart)
}

func clampPercent(pct float64) int {
	v := int(math.Round(pct))
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}

// OverallPercent is the unweighted mean of ModulePercent across the
// configured curriculum, used for the project summary bar.
func OverallPercent(cp CourseProgress) int {
	if len(course.Modules) == 0 {
		return 0
	}
	sum := 0
	for _, m := range course.Modules {
		sum += ModulePercent(m.ID, cp)
	}
	return int(math.Round(float64(sum) / float64(len(course.Modules))))
}

// Refresh recomputes every cached per-module Progress field from the live
// sets. Called before each persisted write so the stored cache never drifts
// from the authoritative computation.
func Refresh(cp CourseProgress) CourseProgress {
	out := cp.clone()
	for _, m := range course.Modules {
		mp := out.ModuleProgress[m.ID]
		mp.Progress = modulePercent(m.ID, mp, m)
		out.ModuleProgress[m.ID] = mp
	}
	return out
}

// CompleteTopic marks a topic done. Pure set-add: already-present ids are a
// no-op and the input snapshot is returned unchanged.
func CompleteTopic(cp CourseProgress, moduleID, topicID string) CourseProgress {
	mp, ok := cp.ModuleProgress[moduleID]
	if !ok || contains(mp.CompletedTopics, topicID) {
		return cp
	}
	out := cp.clone()
	mp = out.ModuleProgress[moduleID]
	mp.CompletedTopics = append(mp.CompletedTopics, topicID)
	out.ModuleProgress[moduleID] = mp
	return out
}

// CompleteExercise marks an exercise done, with the same idempotent set-add
// semantics as CompleteTopic.
func CompleteExercise(cp CourseProgress, moduleID, exerciseID string) CourseProgress {
	mp, ok := cp.ModuleProgress[moduleID]
	if !ok || contains(mp.CompletedExercises, exerciseID) {
		return cp
	}
	out := cp.clone()
	mp = out.ModuleProgress[moduleID]
	mp.CompletedExercises = append(mp.CompletedExercises, exerciseID)
	out.ModuleProgress[moduleID] = mp
	return out
}

// SaveExerciseResponse stores a response with replace semantics: any prior
// entry for the exercise id is dropped and the new one appended.
func SaveExerciseResponse(cp CourseProgress, moduleID, exerciseID string, response any) CourseProgress {
	if _, ok := cp.ModuleProgress[moduleID]; !ok {
		return cp
	}
	out := cp.clone()
	mp := out.ModuleProgress[moduleID]
	kept := mp.ExerciseResponses[:0]
	for _, r := range mp.ExerciseResponses {
		if r.ExerciseID != exerciseID {
			kept = append(kept, r)
		}
	}
	mp.ExerciseResponses = append(kept, ExerciseResponse{ExerciseID: exerciseID, Response: response})
	out.ModuleProgress[moduleID] = mp
	return out
}

// GetExerciseResponse looks up the stored response for an exercise. The
// second return is false when nothing has been saved yet.
func GetExerciseResponse(cp CourseProgress, moduleID, exerciseID string) (any, bool) {
	mp, ok := cp.ModuleProgress[moduleID]
	if !ok {
		return nil, false
	}
	for _, r := range mp.ExerciseResponses {
		if r.ExerciseID == exerciseID {
			return r.Response, true
		}
	}
	return nil, false
}

// SaveQuizResponse stores an answered quiz question, replacing any prior
// answer for the same question id; new question ids append.
func SaveQuizResponse(cp CourseProgress, moduleID string, resp QuizResponse) CourseProgress {
	if _, ok := cp.ModuleProgress[moduleID]; !ok {
		return cp
	}
	out := cp.clone()
	mp := out.ModuleProgress[moduleID]
	replaced := false
	for i, r := range mp.QuizResponses {
		if r.QuestionID == resp.QuestionID {
			mp.QuizResponses[i] = resp
			replaced = true
			break
		}
	}
	if !replaced {
		mp.QuizResponses = append(mp.QuizResponses, resp)
	}
	out.ModuleProgress[moduleID] = mp
	return out
}

// GetQuizResponses returns the module's answered questions in answer order.
func GetQuizResponses(cp CourseProgress, moduleID string) []QuizResponse {
	mp, ok := cp.ModuleProgress[moduleID]
	if !ok {
		return nil
	}
	return append([]QuizResponse(nil), mp.QuizResponses...)
}

// SetCurrentModule records the last-viewed module. Empty string clears it.
func SetCurrentModule(cp CourseProgress, moduleID string) CourseProgress {
	out := cp.clone()
	out.CurrentModule = moduleID
	return out
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
