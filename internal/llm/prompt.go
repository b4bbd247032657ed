package llm

import "strings"

// maxPromptTextLen caps how much document text goes into the user prompt.
const maxPromptTextLen = 6000

// BuildSystemPrompt composes the system message: extraction task, envelope
// shape, and strict formatting rules. The document text it will see is
// already anonymized, and the prompt forbids echoing personal data anyway.
func BuildSystemPrompt() string {
	parts := []string{
		"You are a medical laboratory report parser. Return ONLY JSON that matches the provided JSON Schema.",
		"Extract every measurable test result from the document into the 'measurements' array.",
		"Each record has: 'name' (canonical English test name, e.g. 'Hemoglobin', 'CRP'), 'value' (the measured number), 'unit' (as printed, e.g. 'g/dL'), 'optimalRange' with numeric 'min' and 'max' for the reference interval when printed, and an optional short 'description'.",
		"For a 'greater than' style reference interval, set 'min' to the bound and omit 'max'.",
		"Never include patient names, identification numbers, addresses, or any other personal data in any field.",
		"Never output null. If a field is not present, omit it.",
		"Do not wrap the JSON in markdown code fences.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the anonymized document text, truncated to keep
// the request within model input limits.
func BuildUserPrompt(anonymizedText string) string {
	var b strings.Builder
	b.WriteString("Laboratory report text:\n")
	text := strings.TrimSpace(anonymizedText)
	if len(text) > maxPromptTextLen {
		b.WriteString(text[:maxPromptTextLen])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	return b.String()
}
