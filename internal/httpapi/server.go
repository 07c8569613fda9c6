package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crudd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Resources() []types.Resource
	Schema(name string) (types.Resource, error)
	Status() types.StatusResponse
	Ready() bool
	Create(ctx context.Context, resource string, payload map[string]any) (map[string]any, error)
	Get(ctx context.Context, resource string, id int64) (map[string]any, error)
	List(ctx context.Context, resource string, page types.Page) ([]map[string]any, int64, error)
	Update(ctx context.Context, resource string, id int64, payload map[string]any) (map[string]any, error)
	Delete(ctx context.Context, resource string, id int64) error
}

// NewMux builds the router: fixed endpoints plus one CRUD route group per
// discovered resource.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsAllowedOrigins,
			AllowedMethods:   corsAllowedMethods,
			AllowedHeaders:   corsAllowedHeaders,
			AllowCredentials: true,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.WelcomeResponse{
			Name:        apiTitle,
			Description: apiDescription,
			Version:     apiVersion,
			Schemas:     "/schemas",
			OpenAPI:     "/openapi.json",
		})
	})

	r.Get("/schemas", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.ResourcesResponse{Resources: svc.Resources()})
	})

	r.Get("/schemas/{resource}", func(w http.ResponseWriter, r *http.Request) {
		spec, err := svc.Schema(chi.URLParam(r, "resource"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, spec)
	})

	r.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, openAPIDocument(svc.Resources()))
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("database unavailable"))
	})

	// Generated CRUD routes, one group per resource.
	for _, res := range svc.Resources() {
		r.Route(res.Route, resourceRoutes(svc, res))
	}

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	// Swagger UI when built with -tags=swagger
	MountSwagger(r)

	return r
}
