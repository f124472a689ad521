package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// configSchema describes the shape of a whisker config document. Unknown
// top-level keys are rejected so typos fail loudly instead of silently
// falling back to defaults.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "analysis": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "policy": {"type": "string", "enum": ["tukey", "real", "fair"]},
        "max_outliers": {"type": "integer", "minimum": 0}
      }
    },
    "input": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "columns": {"type": "array", "items": {"type": "string"}}
      }
    },
    "cache": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"},
        "dir": {"type": "string"},
        "ttl": {"type": "integer", "minimum": 0}
      }
    },
    "output": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "format": {"type": "string", "enum": ["text", "json", "markdown", "toon"]},
        "color": {"type": "boolean"},
        "verbose": {"type": "boolean"}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(configSchema))
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("whisker-config.json", doc); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = c.Compile("whisker-config.json")
	})
	return compiledSchema, schemaErr
}

// validateSchema checks a decoded config document against the schema.
func validateSchema(doc map[string]interface{}) error {
	sch, err := loadSchema()
	if err != nil {
		return fmt.Errorf("config schema: %w", err)
	}
	if err := sch.Validate(normalize(doc)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// normalize converts koanf's raw map into the plain JSON value types the
// schema validator expects (map[string]interface{}, []interface{}, float64,
// string, bool).
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[k] = normalize(val)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, val := range t {
			s[i] = normalize(val)
		}
		return s
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}
