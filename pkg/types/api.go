package types

// ResourcesResponse wraps the list of resources returned by GET /schemas.
type ResourcesResponse struct {
	// All discovered resources.
	Resources []Resource `json:"resources"`
}

// ListResponse wraps a paginated list of rows returned by GET /{resource}/.
type ListResponse struct {
	// Active rows for the requested page.
	Items []map[string]any `json:"items"`
	// Total number of active rows, ignoring pagination.
	// example: 42
	Total int64 `json:"total" example:"42"`
	// Number of rows skipped.
	// example: 0
	Skip int `json:"skip" example:"0"`
	// Page size applied after clamping.
	// example: 100
	Limit int `json:"limit" example:"100"`
}

// MessageResponse is returned by operations that have no row to return.
type MessageResponse struct {
	// Human-readable outcome.
	// example: product deleted successfully
	Message string `json:"message" example:"product deleted successfully"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
	// Per-field validation messages, present on 422 responses.
	Fields map[string]string `json:"fields,omitempty"`
}

// ResourceStatus summarizes one resource for GET /status.
type ResourceStatus struct {
	// Resource name.
	// example: product
	Name string `json:"name" example:"product"`
	// Backing table.
	// example: products
	Table string `json:"table" example:"products"`
	// Route prefix.
	// example: /product
	Route string `json:"route" example:"/product"`
	// Number of declared fields.
	// example: 4
	Fields int `json:"fields" example:"4"`
	// Number of active rows in the table.
	// example: 17
	Rows int64 `json:"rows" example:"17"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall service state (ready or degraded).
	// example: ready
	State string `json:"state" example:"ready"`
	// Database dialect in use (sqlite or postgres).
	// example: sqlite
	Dialect string `json:"dialect" example:"sqlite"`
	// Per-resource summaries.
	Resources []ResourceStatus `json:"resources"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Optional top-level error message (row counting failures and the like).
	Error string `json:"error,omitempty"`
}

// WelcomeResponse is returned by GET /.
type WelcomeResponse struct {
	// Service name.
	// example: crudd
	Name string `json:"name" example:"crudd"`
	// Service description.
	// example: Auto-generated CRUD API from resource definitions
	Description string `json:"description" example:"Auto-generated CRUD API from resource definitions"`
	// API version string.
	// example: 1.0.0
	Version string `json:"version" example:"1.0.0"`
	// Where the schema documentation lives.
	// example: /schemas
	Schemas string `json:"schemas" example:"/schemas"`
	// Where the generated OpenAPI document lives.
	// example: /openapi.json
	OpenAPI string `json:"openapi" example:"/openapi.json"`
}
