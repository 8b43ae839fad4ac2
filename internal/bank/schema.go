package bank

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionsSchema describes the questions source: topic id → levels.
var questionsSchema = map[string]any{
	"type": "object",
	"additionalProperties": map[string]any{
		"type":     "object",
		"required": []any{"title", "levels"},
		"properties": map[string]any{
			"title": map[string]any{"type": "string", "minLength": 1},
			"levels": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"level", "questions"},
					"properties": map[string]any{
						"level": map[string]any{
							"type":    "integer",
							"minimum": 1,
							"maximum": TotalLevels,
						},
						"title": map[string]any{"type": "string"},
						"questions": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type":     "object",
								"required": []any{"question", "options", "answer"},
								"properties": map[string]any{
									"question": map[string]any{"type": "string", "minLength": 1},
									"options": map[string]any{
										"type":     "array",
										"minItems": 2,
										"items":    map[string]any{"type": "string", "minLength": 1},
									},
									"answer": map[string]any{"type": "string", "minLength": 1},
									"hint":   map[string]any{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	},
}

// topicsSchema describes the topics source.
var topicsSchema = map[string]any{
	"type":     "object",
	"required": []any{"topics"},
	"properties": map[string]any{
		"topics": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "title"},
				"properties": map[string]any{
					"id":          map[string]any{"type": "string", "pattern": "^[a-z0-9][a-z0-9_-]*$"},
					"title":       map[string]any{"type": "string", "minLength": 1},
					"description": map[string]any{"type": "string"},
					"image":       map[string]any{"type": "string"},
				},
			},
		},
	},
}

var (
	compileOnce      sync.Once
	compiledTopics   *jsonschema.Schema
	compiledQs       *jsonschema.Schema
	compileSchemaErr error
)

func compileSchemas() error {
	compileOnce.Do(func() {
		compiledTopics, compileSchemaErr = compile("topics", topicsSchema)
		if compileSchemaErr != nil {
			return
		}
		compiledQs, compileSchemaErr = compile("questions", questionsSchema)
	})
	return compileSchemaErr
}

func compile(name string, def map[string]any) (*jsonschema.Schema, error) {
	// The compiler wants plain decoded JSON values, so round-trip the Go map.
	raw, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal %s schema: %w", name, err)
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse %s schema: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://quizly/%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add %s schema: %w", name, err)
	}
	return c.Compile(url)
}

// checkShape validates a decoded document against the named schema.
func checkShape(source string, doc any, questions bool) error {
	if err := compileSchemas(); err != nil {
		return fmt.Errorf("compile schemas: %w", err)
	}
	sch := compiledTopics
	if questions {
		sch = compiledQs
	}
	if err := sch.Validate(doc); err != nil {
		return &InvalidError{Source: source, Problems: []string{err.Error()}}
	}
	return nil
}
