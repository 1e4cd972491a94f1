package assistant

// AskRequest represents a question for the atlas assistant.
type AskRequest struct {
	// Question is the user's free-text question.
	Question string `json:"question"`
}

// AskResponse represents the assistant's answer.
type AskResponse struct {
	// Answer is the generated (or fixed fallback) answer text.
	Answer string `json:"answer"`
	// UsedSources lists the deduplicated document paths backing the
	// selected evidence, in selection order. Populated on every path that
	// gets past ranking, including degraded ones.
	UsedSources []string `json:"used_sources"`
}
