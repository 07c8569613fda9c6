package store

import (
	"encoding/json"
	"strconv"
	"time"

	"crudd/internal/schema"
)

// sqliteTimeLayouts covers the textual timestamp encodings the sqlite driver
// may hand back when scanning into untyped maps.
var sqliteTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// normalize rewrites a scanned row into descriptor-shaped values: int64 for
// ints and ids, float64 for floats, bool for booleans, UTC time.Time for
// timestamps, string for the rest. Map scans otherwise leak driver storage
// classes (sqlite booleans arrive as int64, timestamps as text).
func (s *Store) normalize(res schema.Resource, row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for name, v := range row {
		if v == nil {
			out[name] = nil
			continue
		}
		switch name {
		case "id":
			out[name] = toInt64(v)
		case "is_active":
			out[name] = toBool(v)
		case "created_at", "updated_at":
			out[name] = toTime(v)
		default:
			f, ok := res.Field(name)
			if !ok {
				out[name] = v
				continue
			}
			switch f.Type {
			case schema.TypeInt:
				out[name] = toInt64(v)
			case schema.TypeFloat:
				out[name] = toFloat64(v)
			case schema.TypeBool:
				out[name] = toBool(v)
			case schema.TypeTime:
				out[name] = toTime(v)
			default:
				out[name] = toString(v)
			}
		}
	}
	return out
}

func toInt64(v any) any {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
	case []byte:
		if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
			return i
		}
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i
		}
	}
	return v
}

func toFloat64(v any) any {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case []byte:
		if f, err := strconv.ParseFloat(string(n), 64); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return v
}

func toBool(v any) any {
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case int:
		return b != 0
	case string:
		if p, err := strconv.ParseBool(b); err == nil {
			return p
		}
	}
	return v
}

func toTime(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		for _, layout := range sqliteTimeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.UTC()
			}
		}
	case []byte:
		return toTime(string(t))
	}
	return v
}

func toString(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
