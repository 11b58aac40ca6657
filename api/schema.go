package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/garnizeh/offerdesk/internal/workflow"
	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schemas holds the compiled request body schemas keyed by file name
// without extension ("offer_create", "offer_patch", "dispatch", "role").
type Schemas struct {
	byName map[string]*jsonschema.Schema
}

// LoadSchemas compiles every embedded schema.
func LoadSchemas() (*Schemas, error) {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}
	s := &Schemas{byName: make(map[string]*jsonschema.Schema, len(entries))}
	for _, e := range entries {
		b, err := fs.ReadFile(schemaFS, path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		s.byName[strings.TrimSuffix(e.Name(), path.Ext(e.Name()))] = rs
	}
	return s, nil
}

// MustLoadSchemas is LoadSchemas for static wiring; the schemas are embedded
// so a failure is a build defect.
func MustLoadSchemas() *Schemas {
	s, err := LoadSchemas()
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks body against the named schema. Violations come back as a
// *workflow.ValidationError so the response shape matches field errors
// raised by the workflow itself.
func (s *Schemas) Validate(ctx context.Context, name string, body []byte) error {
	rs, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("api: unknown schema %q", name)
	}
	keyErrs, err := rs.ValidateBytes(ctx, body)
	if err != nil {
		return &workflow.ValidationError{Fields: []workflow.FieldError{{Field: "body", Message: err.Error()}}}
	}
	if len(keyErrs) == 0 {
		return nil
	}
	ve := &workflow.ValidationError{}
	for _, ke := range keyErrs {
		field := strings.TrimPrefix(ke.PropertyPath, "/")
		if field == "" {
			field = "body"
		}
		ve.Fields = append(ve.Fields, workflow.FieldError{Field: field, Message: ke.Message})
	}
	return ve
}
