package swagger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// JSONPath is where the rendered document is served.
const JSONPath = "/openapi.json"

type Document struct {
	spec *openapi3.T
	json []byte
}

// Load parses and validates an OpenAPI 3 document.
func Load(ctx context.Context, data []byte) (*Document, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if err := spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	rendered, err := spec.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("render openapi document: %w", err)
	}
	return &Document{spec: spec, json: rendered}, nil
}

// Paths lists the documented paths.
func (d *Document) Paths() []string {
	return d.spec.Paths.InMatchingOrder()
}

func (d *Document) ServeJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(d.json)
}

func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(JSONPath),
	)
}
