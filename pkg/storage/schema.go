package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrCorruptState is returned when a snapshot cannot be used.
var ErrCorruptState = errors.New("corrupt state snapshot")

// stateSchema describes the JSON types of the durable layout. Every key is
// optional and every section may be null; only wrong types are rejected.
const stateSchema = `{
  "$schema": "http://json-schema.org/draft-04/schema#",
  "type": "object",
  "definitions": {
    "item": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": {"type": "string"},
        "title": {"type": "string"},
        "tags": {"type": ["array", "null"], "items": {"type": "string"}}
      }
    },
    "stringList": {"type": ["array", "null"], "items": {"type": "string"}}
  },
  "properties": {
    "favorites": {
      "type": ["object", "null"],
      "properties": {
        "tracks": {"type": ["array", "null"], "items": {"$ref": "#/definitions/item"}},
        "resources": {"type": ["array", "null"], "items": {"$ref": "#/definitions/item"}}
      }
    },
    "progress": {
      "type": ["object", "null"],
      "properties": {
        "items": {
          "type": ["object", "null"],
          "additionalProperties": {"type": "number"}
        },
        "completedLessons": {
          "type": ["object", "null"],
          "additionalProperties": {
            "type": ["object", "null"],
            "additionalProperties": {"type": "boolean"}
          }
        }
      }
    },
    "ui": {
      "type": ["object", "null"],
      "properties": {
        "theme": {"type": ["string", "null"]},
        "recentViews": {
          "type": ["array", "null"],
          "items": {
            "type": "object",
            "required": ["id"],
            "properties": {
              "id": {"type": "string"},
              "title": {"type": "string"},
              "type": {"type": "string"}
            }
          }
        },
        "milestonesSeen": {
          "type": ["object", "null"],
          "additionalProperties": {
            "type": ["object", "null"],
            "additionalProperties": {"type": "boolean"}
          }
        },
        "recentSearches": {
          "type": ["object", "null"],
          "additionalProperties": {"$ref": "#/definitions/stringList"}
        }
      }
    },
    "plan": {
      "type": ["object", "null"],
      "properties": {
        "tasks": {
          "type": ["array", "null"],
          "items": {
            "type": "object",
            "required": ["id", "title"],
            "properties": {
              "id": {"type": "string"},
              "title": {"type": "string"},
              "stage": {"type": "string"},
              "dueDate": {"type": ["string", "null"]},
              "done": {"type": "boolean"},
              "linkedType": {"type": ["string", "null"]},
              "linkedId": {"type": ["string", "null"]},
              "note": {"type": ["string", "null"]},
              "createdAt": {"type": ["string", "null"]},
              "completedAt": {"type": ["string", "null"]}
            }
          }
        }
      }
    },
    "resourceStatus": {
      "type": ["object", "null"],
      "properties": {
        "statuses": {
          "type": ["object", "null"],
          "additionalProperties": {"type": "string", "enum": ["todo", "doing", "done"]}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(stateSchema)

// ValidateSnapshot checks raw snapshot bytes against the state schema.
func ValidateSnapshot(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrCorruptState, strings.Join(msgs, "; "))
}
