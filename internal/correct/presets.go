package correct

// Styles lists the supported correction styles.
var Styles = []string{"standard", "formal", "casual"}

// ValidStyle reports whether style names a known correction style.
// The empty string counts as standard.
func ValidStyle(style string) bool {
	if style == "" {
		return true
	}
	for _, s := range Styles {
		if s == style {
			return true
		}
	}
	return false
}

// BuildPrompt renders the correction instruction for a transcript. The
// standard form asks only for typo and grammar fixes so the model does
// not rewrite the speaker's words.
func BuildPrompt(style, text string) string {
	prompt := "Please correct any typos or grammatical errors in the following text: \"" + text + "\". " +
		"Provide a coherent and polished version. " +
		"Just give the corrected text without any additional information."
	switch style {
	case "formal":
		prompt += " Use a formal, professional register."
	case "casual":
		prompt += " Keep the tone relaxed and conversational."
	}
	return prompt
}
