package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawSpec []byte

var (
	specOnce sync.Once
	spec     *openapi3.T
	specErr  error
)

// GetSwagger parses and validates the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	specOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(rawSpec)
		if err != nil {
			specErr = fmt.Errorf("loading openapi document: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			specErr = fmt.Errorf("invalid openapi document: %w", err)
			return
		}
		spec = doc
	})
	return spec, specErr
}

// validateBody checks a decoded JSON body against a component schema and
// returns the failures keyed by top-level property ("body" for the document itself).
func validateBody(schemaName string, body any) (map[string]string, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref.Value == nil {
		return nil, fmt.Errorf("schema %q not found", schemaName)
	}

	err = ref.Value.VisitJSON(body, openapi3.MultiErrors())
	if err == nil {
		return nil, nil
	}

	out := make(map[string]string)
	collectSchemaErrors(err, out)
	return out, nil
}

func collectSchemaErrors(err error, out map[string]string) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, e := range multi {
			collectSchemaErrors(e, out)
		}
		return
	}

	key, reason := "body", err.Error()
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		reason = se.Reason
		if ptr := se.JSONPointer(); len(ptr) > 0 {
			key = ptr[0]
		}
	}
	if _, exists := out[key]; !exists {
		out[key] = reason
	}
}
