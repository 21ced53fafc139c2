package badge

import (
	"time"

	"github.com/HuonT/Writers-Tome/internal/course"
)

// Badge is a catalog entry. Earned/EarnedAt are computed per user at
// evaluation time; the catalog itself never carries them set.
type Badge struct {
	ID          string    `json:"id"`
	ModuleID    string    `json:"module_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Earned      bool      `json:"earned"`
	EarnedAt    time.Time `json:"earned_at,omitempty"`
}

// Catalog is the fixed, ordered badge list. Order matters: for the
// non-worldbuilding modules index 0 is the exercise/profile badge and index 1
// the quiz badge; worldbuilding carries one badge per exercise, mapped by
// completion position.
var Catalog = []Badge{
	{ID: "plot-strategist", ModuleID: course.ModulePlot, Name: "Master Strategist", Description: "Created your first plot outline", Icon: "BookOpen"},
	{ID: "plot-architect", ModuleID: course.ModulePlot, Name: "Story Architect", Description: "Completed the plot development quiz", Icon: "Building"},

	{ID: "character-creator", ModuleID: course.ModuleCharacters, Name: "Character Creator", Description: "Created your first character profile", Icon: "Users"},
	{ID: "arc-master", ModuleID: course.ModuleCharacters, Name: "Arc Master", Description: "Completed the character development quiz", Icon: "LineChart"},

	{ID: "theme-weaver", ModuleID: course.ModuleThemes, Name: "Theme Weaver", Description: "Created your first theme profile", Icon: "Lightbulb"},
	{ID: "emotional-resonator", ModuleID: course.ModuleThemes, Name: "Emotional Resonator", Description: "Completed the theme development quiz", Icon: "Heart"},

	{ID: "world-scale", ModuleID: course.ModuleWorldbuilding, Name: "World Architect", Description: "Completed the world scale exercise", Icon: "Globe"},
	{ID: "environment-master", ModuleID: course.ModuleWorldbuilding, Name: "Geologist", Description: "Completed the environment mapping exercise", Icon: "Mountain"},
	{ID: "magic-weaver", ModuleID: course.ModuleWorldbuilding, Name: "Magician", Description: "Completed the magic system design exercise", Icon: "Sparkles"},
	{ID: "culture-sage", ModuleID: course.ModuleWorldbuilding, Name: "Culture Sage", Description: "Completed the culture development exercise", Icon: "Users"},
	{ID: "power-strategist", ModuleID: course.ModuleWorldbuilding, Name: "Power Strategist", Description: "Completed the power structure exercise", Icon: "Crown"},
	{ID: "lore-keeper", ModuleID: course.ModuleWorldbuilding, Name: "Lore Keeper", Description: "Completed the history development exercise", Icon: "Scroll"},
	{ID: "guild-master", ModuleID: course.ModuleWorldbuilding, Name: "Guild Master", Description: "Completed the crafts and occupations exercise", Icon: "Hammer"},
	{ID: "conflict-weaver", ModuleID: course.ModuleWorldbuilding, Name: "Troublemaker", Description: "Completed the world tensions exercise", Icon: "Swords"},
}

// ModuleBadges returns a fresh copy of the ordered catalog slice for a module.
// Callers may mark entries earned without touching the shared catalog.
func ModuleBadges(moduleID string) []Badge {
	var out []Badge
	for _, b := range Catalog {
		if b.ModuleID == moduleID {
			out = append(out, b)
		}
	}
	return out
}
