package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAPIDocument(t *testing.T) {
	svc := newMockService()
	doc := openAPIDocument(svc.Resources())

	if doc["openapi"] != "3.0.3" {
		t.Fatalf("openapi version: %v", doc["openapi"])
	}
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		t.Fatalf("paths missing")
	}
	for _, p := range []string{"/product/", "/product/{id}"} {
		if _, ok := paths[p]; !ok {
			t.Fatalf("missing path %s", p)
		}
	}
	components := doc["components"].(map[string]any)
	schemas := components["schemas"].(map[string]any)
	for _, name := range []string{"Product", "ProductInput", "Error", "Message"} {
		if _, ok := schemas[name]; !ok {
			t.Fatalf("missing schema %s", name)
		}
	}
	input := schemas["ProductInput"].(map[string]any)
	required, _ := input["required"].([]string)
	if len(required) != 2 {
		t.Fatalf("required=%v", input["required"])
	}
	row := schemas["Product"].(map[string]any)
	props := row["properties"].(map[string]any)
	if _, ok := props["id"]; !ok {
		t.Fatalf("row schema missing id")
	}
	label := props["label"].(map[string]any)
	if _, ok := label["enum"]; !ok {
		t.Fatalf("enum values missing: %v", label)
	}
}

func TestOpenAPIEndpointServesJSON(t *testing.T) {
	h := NewMux(newMockService())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("json: %v", err)
	}
	if doc["info"] == nil || doc["paths"] == nil {
		t.Fatalf("incomplete document: %v", doc)
	}
}
