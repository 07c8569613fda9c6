package httpapi

import (
	"strings"

	"crudd/pkg/types"
)

// openAPIDocument renders an OpenAPI 3 document for the generated API. swag's
// static analysis cannot see routes that only exist at runtime, so the
// document is assembled from the resource descriptors instead; the Swagger UI
// build (-tags=swagger) points at this endpoint.
func openAPIDocument(resources []types.Resource) map[string]any {
	schemas := map[string]any{
		"Error": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"error":  map[string]any{"type": "string"},
				"code":   map[string]any{"type": "integer"},
				"fields": map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "string"}},
			},
		},
		"Message": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"message": map[string]any{"type": "string"},
			},
		},
	}
	paths := map[string]any{}
	for _, res := range resources {
		title := titleCase(res.Name)
		schemas[title] = rowSchema(res)
		schemas[title+"Input"] = inputSchema(res)
		paths[res.Route+"/"] = collectionPathItem(res, title)
		paths[res.Route+"/{id}"] = itemPathItem(res, title)
	}
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       apiTitle,
			"version":     apiVersion,
			"description": apiDescription,
		},
		"paths":      paths,
		"components": map[string]any{"schemas": schemas},
	}
}

func fieldSchema(f types.FieldSpec) map[string]any {
	out := map[string]any{}
	switch f.Type {
	case "int":
		out["type"] = "integer"
		out["format"] = "int64"
	case "float":
		out["type"] = "number"
		out["format"] = "double"
	case "bool":
		out["type"] = "boolean"
	case "time":
		out["type"] = "string"
		out["format"] = "date-time"
	case "enum":
		out["type"] = "string"
		out["enum"] = f.Values
	default:
		out["type"] = "string"
		if f.MaxLen > 0 {
			out["maxLength"] = f.MaxLen
		}
	}
	if f.References != "" {
		out["description"] = "id of a " + f.References + " row"
	}
	if f.Default != nil {
		out["default"] = f.Default
	}
	return out
}

// rowSchema describes a stored row, implicit columns included.
func rowSchema(res types.Resource) map[string]any {
	props := map[string]any{
		"id":         map[string]any{"type": "integer", "format": "int64"},
		"created_at": map[string]any{"type": "string", "format": "date-time"},
		"updated_at": map[string]any{"type": "string", "format": "date-time"},
		"is_active":  map[string]any{"type": "boolean"},
	}
	for _, f := range res.Fields {
		props[f.Name] = fieldSchema(f)
	}
	s := map[string]any{"type": "object", "properties": props}
	if res.Description != "" {
		s["description"] = res.Description
	}
	return s
}

// inputSchema describes a create/update body: declared fields only.
func inputSchema(res types.Resource) map[string]any {
	props := map[string]any{}
	var required []string
	for _, f := range res.Fields {
		props[f.Name] = fieldSchema(f)
		if f.Required && f.Default == nil {
			required = append(required, f.Name)
		}
	}
	s := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func jsonContent(schema map[string]any) map[string]any {
	return map[string]any{"application/json": map[string]any{"schema": schema}}
}

func errorResponse(desc string) map[string]any {
	return map[string]any{"description": desc, "content": jsonContent(ref("Error"))}
}

func collectionPathItem(res types.Resource, title string) map[string]any {
	listSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{"type": "array", "items": ref(title)},
			"total": map[string]any{"type": "integer"},
			"skip":  map[string]any{"type": "integer"},
			"limit": map[string]any{"type": "integer"},
		},
	}
	return map[string]any{
		"get": map[string]any{
			"tags":    []string{res.Name},
			"summary": "List active " + res.Name + " rows",
			"parameters": []map[string]any{
				{"name": "skip", "in": "query", "schema": map[string]any{"type": "integer", "minimum": 0}},
				{"name": "limit", "in": "query", "schema": map[string]any{"type": "integer", "minimum": 1}},
			},
			"responses": map[string]any{
				"200": map[string]any{"description": "One page of rows", "content": jsonContent(listSchema)},
				"400": errorResponse("Invalid pagination parameters"),
			},
		},
		"post": map[string]any{
			"tags":    []string{res.Name},
			"summary": "Create a " + res.Name,
			"requestBody": map[string]any{
				"required": true,
				"content":  jsonContent(ref(title + "Input")),
			},
			"responses": map[string]any{
				"201": map[string]any{"description": "Stored row", "content": jsonContent(ref(title))},
				"409": errorResponse("Constraint violation"),
				"422": errorResponse("Payload failed validation"),
			},
		},
	}
}

func itemPathItem(res types.Resource, title string) map[string]any {
	idParam := map[string]any{
		"name": "id", "in": "path", "required": true,
		"schema": map[string]any{"type": "integer", "format": "int64"},
	}
	notFound := errorResponse(res.Name + " not found")
	return map[string]any{
		"get": map[string]any{
			"tags":       []string{res.Name},
			"summary":    "Get a " + res.Name + " by id",
			"parameters": []map[string]any{idParam},
			"responses": map[string]any{
				"200": map[string]any{"description": "Stored row", "content": jsonContent(ref(title))},
				"404": notFound,
			},
		},
		"put": map[string]any{
			"tags":       []string{res.Name},
			"summary":    "Update a " + res.Name,
			"parameters": []map[string]any{idParam},
			"requestBody": map[string]any{
				"required": true,
				"content":  jsonContent(ref(title + "Input")),
			},
			"responses": map[string]any{
				"200": map[string]any{"description": "Stored row", "content": jsonContent(ref(title))},
				"404": notFound,
				"409": errorResponse("Constraint violation"),
				"422": errorResponse("Payload failed validation"),
			},
		},
		"delete": map[string]any{
			"tags":       []string{res.Name},
			"summary":    "Soft-delete a " + res.Name,
			"parameters": []map[string]any{idParam},
			"responses": map[string]any{
				"200": map[string]any{"description": "Deletion message", "content": jsonContent(ref("Message"))},
				"404": notFound,
			},
		},
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
