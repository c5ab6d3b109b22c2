package books

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// volumesSchema describes the parts of a volumes response that are read.
// Unknown properties are allowed; the API adds fields over time. Optional
// fields may be null, which decodes the same as absent.
const volumesSchema = `{
  "type": "object",
  "properties": {
    "totalItems": {"type": ["integer", "null"], "minimum": 0},
    "items": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": ["string", "null"]},
          "volumeInfo": {
            "type": ["object", "null"],
            "properties": {
              "title": {"type": ["string", "null"]},
              "authors": {"type": ["array", "null"], "items": {"type": ["string", "null"]}},
              "publisher": {"type": ["string", "null"]},
              "publishedDate": {"type": ["string", "null"]},
              "pageCount": {"type": ["integer", "null"]},
              "language": {"type": ["string", "null"]},
              "infoLink": {"type": ["string", "null"]},
              "imageLinks": {
                "type": ["object", "null"],
                "properties": {
                  "thumbnail": {"type": ["string", "null"]},
                  "smallThumbnail": {"type": ["string", "null"]}
                }
              }
            }
          },
          "searchInfo": {
            "type": ["object", "null"],
            "properties": {"textSnippet": {"type": ["string", "null"]}}
          }
        }
      }
    },
    "error": {
      "type": ["object", "null"],
      "properties": {
        "code": {"type": ["integer", "null"]},
        "message": {"type": ["string", "null"]}
      }
    }
  }
}`

var volumesSchemaCompiled = mustSchema(volumesSchema)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("books: invalid volumes schema: %v", err))
	}
	return schema
}

// validateVolumes checks that body is JSON with the expected shape.
func validateVolumes(body []byte) error {
	result, err := volumesSchemaCompiled.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("unexpected shape: %s", strings.Join(msgs, "; "))
}
