package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const contentSchemaURL = "document-content.json"

// contentSchema describes the JSON interchange form of Content.
const contentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["text"],
  "properties": {
    "text": {"type": "string"},
    "tables": {
      "type": ["array", "null"],
      "items": {
        "type": "array",
        "items": {
          "type": "array",
          "items": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

// JSONDecoder reads Content that another extractor already produced, in
// the form {"text": "...", "tables": [[["cell", null, ...], ...], ...]}.
type JSONDecoder struct {
	maxFileSize int64
	schema      *jsonschema.Schema
}

// NewJSONDecoder compiles the content schema.
func NewJSONDecoder(maxFileSize int64) (*JSONDecoder, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(contentSchemaURL, strings.NewReader(contentSchema)); err != nil {
		return nil, fmt.Errorf("add content schema: %w", err)
	}
	schema, err := compiler.Compile(contentSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile content schema: %w", err)
	}
	return &JSONDecoder{maxFileSize: maxFileSize, schema: schema}, nil
}

// Decode reads and validates a JSON content file.
func (d *JSONDecoder) Decode(ctx context.Context, path string) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := statInput(path, d.maxFileSize)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(extensionOf(info.Name()), ExtJSON) {
		return nil, fmt.Errorf("%w: file is not JSON: %s", ErrDecodeFailed, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrDecodeFailed, path, err)
	}
	return d.Parse(data)
}

// Parse validates data against the content schema and decodes it.
func (d *JSONDecoder) Parse(data []byte) (*Content, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrDecodeFailed, err)
	}
	if err := d.schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: content does not match schema: %v", ErrDecodeFailed, err)
	}

	var content Content
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("%w: decode content: %v", ErrDecodeFailed, err)
	}
	if content.IsEmpty() {
		return nil, ErrNoContent
	}
	return &content, nil
}
