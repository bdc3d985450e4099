package level1

import (
	"encoding/json"
	"fmt"
	"sync"

	invopopschema "github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonschema"
)

const schemaID = "https://fitlins-go.github.io/fslshim/schemas/batch.json"

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compiledErr    error
)

// Schema returns the JSON schema of a batch Document.
func Schema() ([]byte, error) {
	reflector := &invopopschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	s := reflector.Reflect(&Document{})
	s.ID = invopopschema.ID(schemaID)
	s.Title = "fslshim batch document"
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch schema: %w", err)
	}
	return data, nil
}

func batchSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		data, err := Schema()
		if err != nil {
			compiledErr = err
			return
		}
		compiledSchema, compiledErr = jsonschema.NewCompiler().Compile(data)
		if compiledErr != nil {
			compiledErr = fmt.Errorf("failed to compile batch schema: %w", compiledErr)
		}
	})
	return compiledSchema, compiledErr
}

func validateAgainstSchema(instance any) error {
	schema, err := batchSchema()
	if err != nil {
		return err
	}
	result := schema.Validate(instance)
	if result.Valid {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}
