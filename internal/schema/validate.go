package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// ValidationError carries per-field messages for a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid payload: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is a payload validation failure.
func IsValidation(err error) bool {
	_, ok := err.(ValidationError)
	return ok
}

// FieldErrors returns the per-field messages if err is a validation failure.
func FieldErrors(err error) map[string]string {
	if ve, ok := err.(ValidationError); ok {
		return ve.Fields
	}
	return nil
}

// DecodePayload decodes a JSON object body into a map, preserving numbers so
// int fields can reject fractional values.
func DecodePayload(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	// Trailing garbage after the object is still a bad body.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("decode payload: trailing data")
	}
	return payload, nil
}

// ValidatePayload checks payload against the resource definition and returns
// the coerced column values to store. With partial set (updates), absent
// fields are left alone; otherwise (creates) required fields must be present
// unless a default fills them, and absent optional fields map to NULL.
func ValidatePayload(res Resource, payload map[string]any, partial bool) (map[string]any, error) {
	errs := make(map[string]string)
	out := make(map[string]any, len(res.Fields))

	for name := range payload {
		if IsBaseColumn(name) {
			errs[name] = "read-only column"
			continue
		}
		if _, ok := res.Field(name); !ok {
			errs[name] = "unknown field"
		}
	}

	for _, f := range res.Fields {
		raw, present := payload[f.Name]
		if !present {
			if partial {
				continue
			}
			if f.Default != nil {
				v, err := coerce(f, f.Default)
				if err != nil {
					errs[f.Name] = err.Error()
					continue
				}
				out[f.Name] = v
				continue
			}
			if f.Required {
				errs[f.Name] = "required"
				continue
			}
			out[f.Name] = nil
			continue
		}
		if raw == nil {
			if f.Required {
				errs[f.Name] = "must not be null"
				continue
			}
			out[f.Name] = nil
			continue
		}
		v, err := coerce(f, raw)
		if err != nil {
			errs[f.Name] = err.Error()
			continue
		}
		out[f.Name] = v
	}

	if len(errs) > 0 {
		return nil, ValidationError{Fields: errs}
	}
	return out, nil
}

// coerce converts a decoded JSON value (or a definition-file default literal)
// into the storage representation for the field, or explains why it cannot.
func coerce(f Field, raw any) (any, error) {
	switch f.Type {
	case TypeString, TypeText:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %s", jsonTypeName(raw))
		}
		if f.MaxLen > 0 && len(s) > f.MaxLen {
			return nil, fmt.Errorf("longer than %d characters", f.MaxLen)
		}
		return s, nil
	case TypeEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %s", jsonTypeName(raw))
		}
		for _, v := range f.Values {
			if s == v {
				return s, nil
			}
		}
		return nil, fmt.Errorf("must be one of: %s", strings.Join(f.Values, ", "))
	case TypeInt:
		n, err := asInt64(raw)
		if err != nil {
			return nil, err
		}
		return n, nil
	case TypeFloat:
		switch v := raw.(type) {
		case json.Number:
			fv, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("expected number")
			}
			return fv, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case float64:
			return v, nil
		default:
			return nil, fmt.Errorf("expected number, got %s", jsonTypeName(raw))
		}
	case TypeBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %s", jsonTypeName(raw))
		}
		return b, nil
	case TypeTime:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected RFC 3339 string, got %s", jsonTypeName(raw))
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("not a valid RFC 3339 timestamp")
		}
		return t.UTC(), nil
	default:
		return nil, fmt.Errorf("unknown type %q", f.Type)
	}
}

// asInt64 accepts JSON numbers without a fractional part and Go integer
// literals from definition-file defaults.
func asInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		return 0, fmt.Errorf("expected integer")
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		return int64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("expected integer")
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("expected integer, got %s", jsonTypeName(raw))
	}
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64, uint64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
