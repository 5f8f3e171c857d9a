package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/resume-parser/internal/resume"
)

// BuildRecordJSONSchema returns the JSON-Schema of a rendered resume record as a generic map.
func BuildRecordJSONSchema() map[string]any {
	stringList := map[string]any{
		"type":     "array",
		"minItems": 1,
		"items":    map[string]any{"type": "string", "minLength": 1},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			resume.KeyEmail:          map[string]any{"type": "string", "minLength": 1},
			resume.KeySkills:         stringList,
			resume.KeyEducation:      stringList,
			resume.KeyWorkExperience: map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{resume.KeyEmail, resume.KeySkills, resume.KeyEducation, resume.KeyWorkExperience},
	}
}

var recordSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return compileSchema(BuildRecordJSONSchema())
})

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("record.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateRecordJSON checks a rendered record document against the record schema.
func ValidateRecordJSON(data []byte) error {
	schema, err := recordSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
