package course

// QuizQuestion is a self-assessed free-text question: the learner writes an
// answer, compares it against the model answer, and the response is recorded.
type QuizQuestion struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var quizzes = map[string][]QuizQuestion{
	ModulePlot: {
		{ID: "plot-1", Question: "What are the two fundamental aspects of plot?",
			Answer: "1. Plot Premise & 2. A series of events that follows a structure."},
		{ID: "plot-2", Question: "Define what 'plot' can be boiled down to for understanding its impact on your story?",
			Answer: "Plot is one common thing that affects the decisions of all the main characters. It is the driving force that all characters have in common."},
		{ID: "plot-3", Question: "How is the plot shown to be relevant to characters?",
			Answer: "By making it the main motivator of decisions and actions."},
		{ID: "plot-4", Question: "When should the plot be first exposed as a motivating factor for your main character?",
			Answer: "The sooner the better within the first chapter."},
		{ID: "plot-5", Question: "How does the plot provide structure to your story?",
			Answer: "By triggering a series of events that affect the characters' lives, forcing action at specific moments and bringing about change in circumstances."},
	},
	ModuleCharacters: {
		{ID: "char-1", Question: "What is the fundamental role of characters?",
			Answer: "To emotionally grip the readers as they play out the plot."},
		{ID: "char-2", Question: "Characters best convey world lore and history, plot complications, thematic elements, decisions, and relationships, through?",
			Answer: "Dialogue and actions (rather than internal monologue or narrator's voice)."},
		{ID: "char-3", Question: "What word is most synonymous with a 'character arc'?",
			Answer: "A 'character transformation'"},
		{ID: "char-4", Question: "What is a universal symbol or a typical example of a character type that embodies certain traits and roles within a story?",
			Answer: "An archetype."},
		{ID: "char-5", Question: "A Hero's journey would typically follow what kind of arc?",
			Answer: "A transformational arc."},
	},
	ModuleThemes: {
		{ID: "theme-1", Question: "What is the purpose of incorporating themes in your story?",
			Answer: "To give a deeper meaning to the story than the objective of the plot. Themes can convey emotional and philosophical messages that stay with a reader long after finishing the book."},
		{ID: "theme-2", Question: "What element of a character do themes play out in and add depth to?",
			Answer: "The emotional life of characters. Themes help to create authentic and relatable emotional tension within a character."},
		{ID: "theme-3", Question: "How can writers best showcase the chosen themes for a character?",
			Answer: "Through dialogue and interaction with other characters, helping to make the dialogue and the characters seem relevant and well integrated with the story."},
		{ID: "theme-4", Question: "What element can themes help create in your character cast's relationships?",
			Answer: "Tension, which can lead to bonding, or devolving relationships."},
	},
}

// QuizQuestions returns the quiz for a module. Worldbuilding has no quiz.
func QuizQuestions(moduleID string) []QuizQuestion {
	return quizzes[moduleID]
}

// QuizQuestionCount reports how many questions a module's quiz has.
func QuizQuestionCount(moduleID string) int {
	return len(quizzes[moduleID])
}

// HasQuizQuestion reports whether the question id belongs to the module's quiz.
func HasQuizQuestion(moduleID, questionID string) bool {
	for _, q := range quizzes[moduleID] {
		if q.ID == questionID {
			return true
		}
	}
	return false
}
