//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

// MountSwagger serves the Swagger UI at /docs, backed by the OpenAPI
// document generated from the resource descriptors.
func MountSwagger(r chi.Router) {
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/openapi.json"),
	))
}
