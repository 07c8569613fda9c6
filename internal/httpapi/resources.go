package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"crudd/internal/schema"
	"crudd/pkg/types"
)

// resourceRoutes mounts the generated CRUD handlers for one resource under
// its route prefix.
func resourceRoutes(svc Service, res types.Resource) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/", createHandler(svc, res))
		r.Get("/", listHandler(svc, res))
		r.Get("/{id}", getHandler(svc, res))
		r.Put("/{id}", updateHandler(svc, res))
		r.Delete("/{id}", deleteHandler(svc, res))
	}
}

// decodeBody enforces the content type and size cap, then decodes the JSON
// object body. It writes the error response itself and reports success.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := schema.DecodePayload(r.Body)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	return payload, true
}

// parseID reads the {id} route parameter. Non-numeric ids read as absent
// rows.
func parseID(w http.ResponseWriter, r *http.Request, resource string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusNotFound, resource+" not found")
		return 0, false
	}
	return id, true
}

// parsePage reads skip/limit query parameters with clamping.
func parsePage(w http.ResponseWriter, r *http.Request) (types.Page, bool) {
	page := types.Page{Skip: 0, Limit: defaultListLimit}
	if v := r.URL.Query().Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid skip parameter")
			return page, false
		}
		if n > 0 {
			page.Skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid limit parameter")
			return page, false
		}
		if n > 0 {
			page.Limit = n
		}
	}
	if page.Limit > maxListLimit {
		page.Limit = maxListLimit
	}
	return page, true
}

// logOperation emits a structured end-of-request line when a logger is
// installed and the effective level allows it.
func logOperation(r *http.Request, resource, op string, status int, start time.Time) {
	recordOperation(resource, op, status)
	if zlog == nil || requestLogLevel(r) < LevelInfo {
		return
	}
	z := zlog.Info().
		Str("resource", resource).
		Str("op", op).
		Int("status", status).
		Dur("dur", time.Since(start))
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg("crud op")
}

func createHandler(svc Service, res types.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		payload, ok := decodeBody(w, r)
		if !ok {
			logOperation(r, res.Name, "create", http.StatusBadRequest, start)
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		row, err := svc.Create(ctx, res.Name, payload)
		if err != nil {
			logOperation(r, res.Name, "create", writeServiceError(w, err), start)
			return
		}
		writeJSON(w, http.StatusCreated, row)
		logOperation(r, res.Name, "create", http.StatusCreated, start)
	}
}

func getHandler(svc Service, res types.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id, ok := parseID(w, r, res.Name)
		if !ok {
			logOperation(r, res.Name, "get", http.StatusNotFound, start)
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		row, err := svc.Get(ctx, res.Name, id)
		if err != nil {
			logOperation(r, res.Name, "get", writeServiceError(w, err), start)
			return
		}
		writeJSON(w, http.StatusOK, row)
		logOperation(r, res.Name, "get", http.StatusOK, start)
	}
}

func listHandler(svc Service, res types.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		page, ok := parsePage(w, r)
		if !ok {
			logOperation(r, res.Name, "list", http.StatusBadRequest, start)
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		items, total, err := svc.List(ctx, res.Name, page)
		if err != nil {
			logOperation(r, res.Name, "list", writeServiceError(w, err), start)
			return
		}
		if items == nil {
			items = []map[string]any{}
		}
		writeJSON(w, http.StatusOK, types.ListResponse{
			Items: items,
			Total: total,
			Skip:  page.Skip,
			Limit: page.Limit,
		})
		logOperation(r, res.Name, "list", http.StatusOK, start)
	}
}

func updateHandler(svc Service, res types.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id, ok := parseID(w, r, res.Name)
		if !ok {
			logOperation(r, res.Name, "update", http.StatusNotFound, start)
			return
		}
		payload, ok := decodeBody(w, r)
		if !ok {
			logOperation(r, res.Name, "update", http.StatusBadRequest, start)
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		row, err := svc.Update(ctx, res.Name, id, payload)
		if err != nil {
			logOperation(r, res.Name, "update", writeServiceError(w, err), start)
			return
		}
		writeJSON(w, http.StatusOK, row)
		logOperation(r, res.Name, "update", http.StatusOK, start)
	}
}

func deleteHandler(svc Service, res types.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id, ok := parseID(w, r, res.Name)
		if !ok {
			logOperation(r, res.Name, "delete", http.StatusNotFound, start)
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if err := svc.Delete(ctx, res.Name, id); err != nil {
			logOperation(r, res.Name, "delete", writeServiceError(w, err), start)
			return
		}
		writeJSON(w, http.StatusOK, types.MessageResponse{Message: res.Name + " deleted successfully"})
		logOperation(r, res.Name, "delete", http.StatusOK, start)
	}
}
