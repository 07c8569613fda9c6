package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crudd/internal/crud"
	"crudd/internal/schema"
	"crudd/internal/store"
	"crudd/pkg/types"
)

type mockService struct {
	resources []types.Resource
	ready     bool
	items     []map[string]any

	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error

	lastPage types.Page
}

func (m *mockService) Resources() []types.Resource { return m.resources }

func (m *mockService) Schema(name string) (types.Resource, error) {
	for _, r := range m.resources {
		if r.Name == name {
			return r, nil
		}
	}
	return types.Resource{}, crud.ErrResourceNotFound(name)
}

func (m *mockService) Status() types.StatusResponse {
	return types.StatusResponse{State: "ready", Dialect: "sqlite"}
}

func (m *mockService) Ready() bool { return m.ready }

func (m *mockService) Create(ctx context.Context, resource string, payload map[string]any) (map[string]any, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	row := map[string]any{"id": int64(1), "is_active": true}
	for k, v := range payload {
		row[k] = v
	}
	return row, nil
}

func (m *mockService) Get(ctx context.Context, resource string, id int64) (map[string]any, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return map[string]any{"id": id, "name": "Widget"}, nil
}

func (m *mockService) List(ctx context.Context, resource string, page types.Page) ([]map[string]any, int64, error) {
	m.lastPage = page
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.items, int64(len(m.items)), nil
}

func (m *mockService) Update(ctx context.Context, resource string, id int64, payload map[string]any) (map[string]any, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	row := map[string]any{"id": id}
	for k, v := range payload {
		row[k] = v
	}
	return row, nil
}

func (m *mockService) Delete(ctx context.Context, resource string, id int64) error {
	return m.deleteErr
}

func newMockService() *mockService {
	return &mockService{
		ready: true,
		resources: []types.Resource{{
			Name:  "product",
			Route: "/product",
			Table: "products",
			Fields: []types.FieldSpec{
				{Name: "name", Type: "string", Required: true, MaxLen: 100},
				{Name: "label", Type: "enum", Required: true, Values: []string{"new", "hot"}},
			},
		}},
	}
}

func TestWelcome(t *testing.T) {
	h := NewMux(newMockService())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.WelcomeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Schemas != "/schemas" || body.OpenAPI != "/openapi.json" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestSchemasHandler(t *testing.T) {
	h := NewMux(newMockService())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/schemas", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ResourcesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Resources) != 1 || body.Resources[0].Name != "product" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestSchemaByName(t *testing.T) {
	h := NewMux(newMockService())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/schemas/product", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/schemas/order", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown resource status=%d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := NewMux(newMockService())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz(t *testing.T) {
	svc := newMockService()
	h := NewMux(svc)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}

	svc.ready = false
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestStatusHandler(t *testing.T) {
	h := NewMux(newMockService())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.State != "ready" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func postJSON(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreateReturns201(t *testing.T) {
	h := NewMux(newMockService())
	w := postJSON(h, "/product/", `{"name":"Widget","label":"hot"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var row map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &row); err != nil {
		t.Fatalf("json: %v", err)
	}
	if row["name"] != "Widget" {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestCreateRequiresJSONContentType(t *testing.T) {
	h := NewMux(newMockService())
	req := httptest.NewRequest(http.MethodPost, "/product/", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestCreateBadJSON(t *testing.T) {
	h := NewMux(newMockService())
	w := postJSON(h, "/product/", "not-json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestCreateValidationErrorMapsTo422(t *testing.T) {
	svc := newMockService()
	svc.createErr = schema.ValidationError{Fields: map[string]string{"label": "required"}}
	h := NewMux(svc)
	w := postJSON(h, "/product/", `{"name":"Widget"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Fields["label"] != "required" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestCreateConflictMapsTo409(t *testing.T) {
	svc := newMockService()
	svc.createErr = store.ErrConflict("duplicate value violates a unique constraint")
	h := NewMux(svc)
	w := postJSON(h, "/product/", `{"name":"Widget","label":"hot"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestGetNotFoundMapsTo404(t *testing.T) {
	svc := newMockService()
	svc.getErr = store.ErrNotFound("product", 42)
	h := NewMux(svc)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/product/42", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "product not found") {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestGetNonNumericID(t *testing.T) {
	h := NewMux(newMockService())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/product/abc", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestListAppliesPaginationDefaults(t *testing.T) {
	SetListLimits(100, 1000)
	svc := newMockService()
	svc.items = []map[string]any{{"id": int64(1)}}
	h := NewMux(svc)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/product/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if svc.lastPage.Skip != 0 || svc.lastPage.Limit != 100 {
		t.Fatalf("page=%+v", svc.lastPage)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/product/?skip=5&limit=9999", nil))
	if svc.lastPage.Skip != 5 || svc.lastPage.Limit != 1000 {
		t.Fatalf("clamped page=%+v", svc.lastPage)
	}

	var body types.ListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Total != 1 || len(body.Items) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestListInvalidPagination(t *testing.T) {
	h := NewMux(newMockService())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/product/?limit=abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestUpdateHandler(t *testing.T) {
	h := NewMux(newMockService())
	req := httptest.NewRequest(http.MethodPut, "/product/3", bytes.NewBufferString(`{"name":"Gadget"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var row map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &row); err != nil {
		t.Fatalf("json: %v", err)
	}
	if row["name"] != "Gadget" {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestDeleteHandler(t *testing.T) {
	h := NewMux(newMockService())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/product/3", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "product deleted successfully") {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc := newMockService()
	svc.deleteErr = store.ErrNotFound("product", 3)
	h := NewMux(svc)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/product/3", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := NewMux(newMockService())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestCORSAndSecurityHeaders(t *testing.T) {
	SetCORSOptions(true, []string{"*"}, []string{"GET", "POST", "OPTIONS"}, []string{"Content-Type"})
	defer SetCORSOptions(false, nil, nil, nil)

	h := NewMux(newMockService())
	req := httptest.NewRequest(http.MethodGet, "/schemas", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected X-Content-Type-Options=nosniff, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("expected CORS header Access-Control-Allow-Origin to be set, got empty")
	}
}

func TestBodySizeLimit(t *testing.T) {
	SetMaxBodyBytes(16)
	defer SetMaxBodyBytes(0)

	h := NewMux(newMockService())
	w := postJSON(h, "/product/", `{"name":"`+strings.Repeat("x", 64)+`"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}
