package schema

import (
	"fmt"
	"sort"
	"strings"

	"crudd/pkg/types"
)

// FieldType enumerates the declarable field types.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeText   FieldType = "text"
	TypeInt    FieldType = "int"
	TypeFloat  FieldType = "float"
	TypeBool   FieldType = "bool"
	TypeTime   FieldType = "time"
	TypeEnum   FieldType = "enum"
)

// baseColumns are carried by every resource and cannot be declared or written
// by clients. created_at/updated_at are maintained by the service; is_active
// implements soft deletion.
var baseColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"is_active":  true,
}

// IsBaseColumn reports whether name is one of the implicit columns.
func IsBaseColumn(name string) bool { return baseColumns[name] }

// Field is one declared field of a resource definition.
type Field struct {
	Name       string    `json:"name" yaml:"name"`
	Type       FieldType `json:"type" yaml:"type"`
	Required   bool      `json:"required,omitempty" yaml:"required"`
	Unique     bool      `json:"unique,omitempty" yaml:"unique"`
	MaxLen     int       `json:"max_len,omitempty" yaml:"max_len"`
	Values     []string  `json:"values,omitempty" yaml:"values"`
	Default    any       `json:"default,omitempty" yaml:"default"`
	References string    `json:"references,omitempty" yaml:"references"`
}

// Resource is a parsed data-model definition.
type Resource struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Table derives the backing table name from the resource name.
func (r Resource) Table() string { return strings.ToLower(r.Name) + "s" }

// Route derives the route prefix all generated endpoints live under.
func (r Resource) Route() string { return "/" + strings.ToLower(r.Name) }

// Field returns the declared field with the given name.
func (r Resource) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Spec converts the resource into its wire representation.
func (r Resource) Spec() types.Resource {
	out := types.Resource{
		Name:        r.Name,
		Route:       r.Route(),
		Table:       r.Table(),
		Description: r.Description,
		Fields:      make([]types.FieldSpec, 0, len(r.Fields)),
	}
	for _, f := range r.Fields {
		out.Fields = append(out.Fields, types.FieldSpec{
			Name:       f.Name,
			Type:       string(f.Type),
			Required:   f.Required,
			Unique:     f.Unique,
			MaxLen:     f.MaxLen,
			Values:     append([]string(nil), f.Values...),
			Default:    f.Default,
			References: f.References,
		})
	}
	return out
}

// validIdent restricts names to lowercase identifiers so derived table and
// route names never need quoting.
func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Validate checks a single resource definition in isolation.
// Cross-resource checks (references) happen in ValidateSet.
func (r Resource) Validate() error {
	if !validIdent(r.Name) {
		return fmt.Errorf("resource name %q must be a lowercase identifier", r.Name)
	}
	if len(r.Fields) == 0 {
		return fmt.Errorf("resource %q declares no fields", r.Name)
	}
	seen := make(map[string]bool, len(r.Fields))
	for _, f := range r.Fields {
		if !validIdent(f.Name) {
			return fmt.Errorf("resource %q: field name %q must be a lowercase identifier", r.Name, f.Name)
		}
		if IsBaseColumn(f.Name) {
			return fmt.Errorf("resource %q: field %q collides with an implicit column", r.Name, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("resource %q: duplicate field %q", r.Name, f.Name)
		}
		seen[f.Name] = true
		switch f.Type {
		case TypeString, TypeText, TypeInt, TypeFloat, TypeBool, TypeTime:
		case TypeEnum:
			if len(f.Values) == 0 {
				return fmt.Errorf("resource %q: enum field %q has no values", r.Name, f.Name)
			}
		default:
			return fmt.Errorf("resource %q: field %q has unknown type %q", r.Name, f.Name, f.Type)
		}
		if f.MaxLen < 0 {
			return fmt.Errorf("resource %q: field %q has negative max_len", r.Name, f.Name)
		}
		if f.MaxLen > 0 && f.Type != TypeString && f.Type != TypeText {
			return fmt.Errorf("resource %q: max_len on non-string field %q", r.Name, f.Name)
		}
		if f.References != "" && f.Type != TypeInt {
			return fmt.Errorf("resource %q: reference field %q must have type int", r.Name, f.Name)
		}
		if f.Default != nil {
			if _, err := coerce(f, f.Default); err != nil {
				return fmt.Errorf("resource %q: default for field %q: %w", r.Name, f.Name, err)
			}
		}
	}
	return nil
}

// ValidateSet validates every resource and resolves cross-resource references.
// The returned slice is sorted by name so route registration and migration
// order are deterministic.
func ValidateSet(resources []Resource) ([]Resource, error) {
	byName := make(map[string]bool, len(resources))
	for _, r := range resources {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if byName[r.Name] {
			return nil, fmt.Errorf("duplicate resource %q", r.Name)
		}
		byName[r.Name] = true
	}
	for _, r := range resources {
		for _, f := range r.Fields {
			if f.References == "" {
				continue
			}
			if !byName[f.References] {
				return nil, fmt.Errorf("resource %q: field %q references unknown resource %q", r.Name, f.Name, f.References)
			}
		}
	}
	out := append([]Resource(nil), resources...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if _, err := DependencyOrder(out); err != nil {
		return nil, err
	}
	return out, nil
}

// DependencyOrder returns the resources ordered so that every referenced
// resource precedes its referrers. Table creation follows this order so
// foreign keys always point at existing tables. Reference cycles are
// rejected.
func DependencyOrder(resources []Resource) ([]Resource, error) {
	byName := make(map[string]Resource, len(resources))
	for _, r := range resources {
		byName[r.Name] = r
	}
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(resources))
	out := make([]Resource, 0, len(resources))
	var visit func(r Resource) error
	visit = func(r Resource) error {
		switch state[r.Name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("reference cycle involving resource %q", r.Name)
		}
		state[r.Name] = visiting
		for _, f := range r.Fields {
			if f.References == "" || f.References == r.Name {
				continue
			}
			if dep, ok := byName[f.References]; ok {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		state[r.Name] = done
		out = append(out, r)
		return nil
	}
	for _, r := range resources {
		if err := visit(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}
