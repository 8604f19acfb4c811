package http

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// OpenAPI is the validated API description, pre-rendered as JSON.
type OpenAPI struct {
	doc  *openapi3.T
	json []byte
}

// LoadOpenAPI parses and validates the embedded API description.
func LoadOpenAPI(ctx context.Context) (*OpenAPI, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	rendered, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("render openapi document: %w", err)
	}

	return &OpenAPI{doc: doc, json: rendered}, nil
}

// Document exposes the parsed description.
func (o *OpenAPI) Document() *openapi3.T {
	return o.doc
}

// ReadDoc implements swag.Swagger so the swagger UI can serve doc.json.
func (o *OpenAPI) ReadDoc() string {
	return string(o.json)
}

var registerSwagOnce sync.Once

// RegisterRoutes serves the document at /openapi.json and the swagger UI at
// /swagger/*.
func (o *OpenAPI) RegisterRoutes(e *echo.Echo) {
	// swag panics on a second registration under the same name.
	registerSwagOnce.Do(func() {
		swag.Register(swag.Name, o)
	})

	e.GET("/openapi.json", func(ctx echo.Context) error {
		return ctx.JSONBlob(http.StatusOK, o.json)
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/openapi.json")))
}
