package course

// CategoryInfo describes a community forum category.
type CategoryInfo struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

var PostCategories = []CategoryInfo{
	{ID: "plot", Label: "Plot Development", Description: "Discuss story structure, plot devices, and narrative techniques", Icon: "BookOpen"},
	{ID: "characters", Label: "Character Creation", Description: "Share character development tips and get feedback on your characters", Icon: "Users"},
	{ID: "themes", Label: "Thematic Elements", Description: "Explore theme development and symbolic storytelling", Icon: "Lightbulb"},
	{ID: "worldbuilding", Label: "World Building", Description: "Create and discuss immersive story settings and environments", Icon: "Globe"},
	{ID: "workshop", Label: "Workshop for Writers", Description: "Get feedback on your writing and help others improve", Icon: "PenTool"},
	{ID: "self-publishing", Label: "Self Publishing", Description: "Share experiences and advice about self-publishing", Icon: "Upload"},
	{ID: "traditional-publishing", Label: "Traditional Publishing", Description: "Discuss traditional publishing paths and experiences", Icon: "BookMarked"},
	{ID: "writers-chatter", Label: "Writer's Chatter", Description: "General discussion about the writing life", Icon: "MessageSquare"},
	{ID: "writing-tips", Label: "Writing Tips", Description: "Share and discover general writing advice and techniques", Icon: "Lightbulb"},
}

// ValidCategory reports whether id names a known forum category.
func ValidCategory(id string) bool {
	for _, c := range PostCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}
