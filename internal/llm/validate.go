package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateJSONAgainstSchema checks response bytes against a schema map,
// normally the measurement envelope from BuildEnvelopeSchema. The inference
// client uses it advisorily: a violation is logged, then the recovery
// parser decides what is salvageable.
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal envelope schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("envelope.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("register envelope schema: %w", err)
	}
	schema, err := compiler.Compile("envelope.schema.json")
	if err != nil {
		return fmt.Errorf("compile envelope schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("response violates envelope schema: %w", err)
	}
	return nil
}
