package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonschema"

	"koordinator/internal/domain"
)

// SchemaChecker validates dispatch arguments against each agent's declared
// parameter schema. Violations are advisory: handlers still run and render
// the gaps.
type SchemaChecker struct {
	schemas map[domain.AgentID]*jsonschema.Schema
}

// NewSchemaChecker compiles the parameter schema of every catalogued agent.
func NewSchemaChecker() (*SchemaChecker, error) {
	schemas := make(map[domain.AgentID]*jsonschema.Schema)
	for _, ident := range domain.Catalog() {
		schema, err := jsonschema.NewCompiler().Compile([]byte(ident.Parameters))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", ident.ID, err)
		}
		schemas[ident.ID] = schema
	}
	return &SchemaChecker{schemas: schemas}, nil
}

// Check returns nil when args satisfy agent's schema.
func (c *SchemaChecker) Check(agent domain.AgentID, args domain.Args) error {
	schema, ok := c.schemas[agent]
	if !ok {
		return domain.NewDomainError("SchemaChecker.Check", domain.ErrUnknownAgent, string(agent))
	}

	// Round-trip through JSON so the validator sees plain JSON types.
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode args: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode args: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}

	result := schema.Validate(data)
	if !result.IsValid() {
		return domain.NewDomainError("SchemaChecker.Check", domain.ErrInvalidInput, fmt.Sprintf("%s", result.Error()))
	}
	return nil
}
