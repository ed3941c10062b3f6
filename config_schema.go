package carefinder

import (
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema describes the structure of a config file. Semantic checks
// that span fields live in ValidateConfig.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "definitions": {
    "duration": {
      "type": "string",
      "pattern": "^(0|([0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h))+)$"
    }
  },
  "properties": {
    "server": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "addr": {"type": "string"},
        "cors_origins": {"type": "array", "items": {"type": "string"}},
        "rate_limit": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "requests_per_second": {"type": "number", "minimum": 0},
            "burst": {"type": "integer", "minimum": 0}
          }
        }
      }
    },
    "feed": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "url": {"type": "string", "minLength": 1},
        "timeout": {"$ref": "#/definitions/duration"},
        "refresh_interval": {"$ref": "#/definitions/duration"}
      }
    },
    "maps": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "api_key": {"type": "string"},
        "base_url": {"type": "string"},
        "breaker_threshold": {"type": "integer", "minimum": 0},
        "breaker_cooldown": {"$ref": "#/definitions/duration"}
      }
    },
    "geocode": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "rate_limit": {"type": "integer", "minimum": 1},
        "window": {"$ref": "#/definitions/duration"},
        "cache_size": {"type": "integer", "minimum": 0},
        "cache_ttl": {"$ref": "#/definitions/duration"}
      }
    },
    "search": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "max_results": {"type": "integer", "minimum": 1}
      }
    },
    "log": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "level": {"enum": ["debug", "info", "warn", "error"]},
        "format": {"enum": ["json", "text"]}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// validateDocument checks a decoded JSON/YAML document against configSchema.
func validateDocument(doc interface{}) error {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString("carefinder-config.schema.json", configSchema)
	})
	if schemaErr != nil {
		return fmt.Errorf("compiling config schema: %w", schemaErr)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}
