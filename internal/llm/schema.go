package llm

// BuildEnvelopeSchema returns a JSON-Schema (draft 2020-12 subset) for the
// measurement envelope as a generic map. We pass it to the inference
// service as a formatting constraint and also use it locally to validate
// strictly parsed responses.
func BuildEnvelopeSchema() map[string]any {
	record := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string", "minLength": 1},
			"value": numberOrString(),
			"unit":  map[string]any{"type": "string"},
			"optimalRange": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"min": numberOrString(),
					"max": numberOrString(),
				},
			},
			"description": map[string]any{"type": "string"},
		},
		"required": []string{"name", "value", "unit"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"measurements": map[string]any{
				"type":  "array",
				"items": record,
			},
		},
		"required": []string{"measurements"},
	}
}

func numberOrString() map[string]any {
	// Values arrive as JSON numbers or locale-formatted strings ("184,0").
	return map[string]any{"type": []string{"number", "string"}}
}
