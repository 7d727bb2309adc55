package openai

import "strings"

const extractionSystemPrompt = `You extract structured data from recipe web pages for a grocery list app. Follow the user's instructions exactly. When asked for JSON, reply with a single JSON object and nothing else: no Markdown, no commentary, no trailing text.`

// stripCodeFences removes a Markdown code block wrapper if present.
func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}
