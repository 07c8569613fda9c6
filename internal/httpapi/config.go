package httpapi

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// List pagination bounds applied to GET /{resource}/ queries.
var (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// SetListLimits configures the default and maximum page sizes.
func SetListLimits(def, max int) {
	if def > 0 {
		defaultListLimit = def
	}
	if max > 0 {
		maxListLimit = max
	}
	if defaultListLimit > maxListLimit {
		defaultListLimit = maxListLimit
	}
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}

// API document metadata served by GET / and the generated OpenAPI document.
var (
	apiTitle       = "crudd"
	apiVersion     = "1.0.0"
	apiDescription = "Auto-generated CRUD API from resource definitions"
)

// SetAPIInfo configures the title, version, and description advertised by
// the welcome and OpenAPI endpoints.
func SetAPIInfo(title, version, description string) {
	if title != "" {
		apiTitle = title
	}
	if version != "" {
		apiVersion = version
	}
	if description != "" {
		apiDescription = description
	}
}
